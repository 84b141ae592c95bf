package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connectfour/pkg/auth"
	"github.com/iamasit07/connectfour/pkg/httputil"
)

const claimsKey = "seat_claims"

type SeatValidator interface {
	ValidateSeatToken(token string) (*auth.SeatClaims, error)
}

// SeatAuthMiddleware validates the seat token and rejects tokens issued for
// a different game than the :id route parameter.
func SeatAuthMiddleware(tokens SeatValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.ValidateSeatToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if id := c.Param("id"); id != "" && claims.GameID != id {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not belong to this game"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// SeatClaims returns the claims stored by SeatAuthMiddleware
func SeatClaims(c *gin.Context) (*auth.SeatClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.SeatClaims)
	return claims, ok
}
