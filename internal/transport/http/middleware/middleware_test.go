package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	tests := []struct {
		name   string
		method string
		origin string
		want   int
	}{
		{"no origin", http.MethodGet, "", http.StatusOK},
		{"allowed origin", http.MethodGet, "http://localhost:5173", http.StatusOK},
		{"foreign origin", http.MethodGet, "http://evil.example", http.StatusForbidden},
		{"preflight", http.MethodOptions, "http://localhost:5173", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusOK && tt.origin != "" && w.Header().Get("Access-Control-Allow-Origin") != tt.origin {
				t.Fatalf("missing allow-origin header: %v", w.Header())
			}
		})
	}
}

func TestOriginChecker(t *testing.T) {
	check := OriginChecker([]string{"http://localhost:5173"})

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if !check(r) {
		t.Fatal("request without origin should pass")
	}
	r.Header.Set("Origin", "http://localhost:5173")
	if !check(r) {
		t.Fatal("allowed origin rejected")
	}
	r.Header.Set("Origin", "http://evil.example")
	if check(r) {
		t.Fatal("foreign origin accepted")
	}
}

func TestSeatAuthMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("middleware-secret", time.Hour)
	good, _ := issuer.IssueSeatToken("g1", domain.Second)
	other, _ := issuer.IssueSeatToken("g2", domain.First)

	router := gin.New()
	router.POST("/games/:id/moves", SeatAuthMiddleware(issuer), func(c *gin.Context) {
		claims, ok := SeatClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"player": claims.Player})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"other game", "Bearer " + other, http.StatusForbidden},
		{"valid", "Bearer " + good, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/games/g1/moves", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d (%s)", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
