package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/pkg/uid"
)

var ErrInvalidToken = errors.New("invalid token")

// SeatClaims binds a token to one game and one seat. Player is
// domain.NoPlayer for hotseat tokens, which may move for either side.
type SeatClaims struct {
	GameID string        `json:"game_id"`
	Player domain.Player `json:"player"`
	jwt.RegisteredClaims
}

// Issuer signs and validates seat tokens with a shared HMAC secret
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// IssueSeatToken creates a token allowing its holder to play as player in gameID
func (i *Issuer) IssueSeatToken(gameID string, player domain.Player) (string, error) {
	if player != domain.NoPlayer && !player.Valid() {
		return "", domain.ErrInvalidPlayer
	}

	now := time.Now()
	claims := &SeatClaims{
		GameID: gameID,
		Player: player,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uid.GenerateTokenID(),
			Subject:   gameID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign seat token: %w", err)
	}
	return signed, nil
}

// ValidateSeatToken verifies the signature and expiry and returns the claims
func (i *Issuer) ValidateSeatToken(tokenString string) (*SeatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SeatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SeatClaims)
	if !ok || !token.Valid || claims.GameID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Player != domain.NoPlayer && !claims.Player.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
