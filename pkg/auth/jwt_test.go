package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/iamasit07/connectfour/internal/domain"
)

func TestSeatTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	for _, player := range []domain.Player{domain.NoPlayer, domain.First, domain.Second} {
		token, err := issuer.IssueSeatToken("game-1", player)
		if err != nil {
			t.Fatalf("issue for %v: %v", player, err)
		}

		claims, err := issuer.ValidateSeatToken(token)
		if err != nil {
			t.Fatalf("validate for %v: %v", player, err)
		}
		if claims.GameID != "game-1" || claims.Player != player {
			t.Fatalf("unexpected claims %+v", claims)
		}
		if claims.ID == "" {
			t.Fatal("expected a token ID")
		}
	}
}

func TestSeatTokenRejections(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	if _, err := issuer.IssueSeatToken("game-1", domain.Player(9)); !errors.Is(err, domain.ErrInvalidPlayer) {
		t.Fatalf("expected ErrInvalidPlayer, got %v", err)
	}

	token, err := issuer.IssueSeatToken("game-1", domain.First)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewIssuer("other-secret", time.Hour)
	if _, err := other.ValidateSeatToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired := NewIssuer("test-secret", -time.Minute)
	old, err := expired.IssueSeatToken("game-1", domain.First)
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	if _, err := issuer.ValidateSeatToken(old); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := issuer.ValidateSeatToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
