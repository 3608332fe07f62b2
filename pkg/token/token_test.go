package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestManager_IssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	raw, err := m.Issue("user-1", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %s", got)
	}
}

func TestManager_DefaultTTL(t *testing.T) {
	if got := NewManager("secret", 0).TTL(); got != 24*time.Hour {
		t.Fatalf("expected 24h default, got %s", got)
	}
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := m.Issue("user-1", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = time.Now
	if _, err := m.Verify(raw); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestManager_WrongSecret(t *testing.T) {
	raw, _ := NewManager("secret", time.Hour).Issue("user-1", "user")

	if _, err := NewManager("other", time.Hour).Verify(raw); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestManager_Garbage(t *testing.T) {
	if _, err := NewManager("secret", time.Hour).Verify("not-a-token"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestManager_RejectsOtherAlgorithms(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: "user-1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewManager("secret", time.Hour).Verify(raw); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for HS512, got %v", err)
	}
}

func TestManager_RequiresExpiry(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1", Role: "user"})
	raw, _ := tkn.SignedString([]byte("secret"))

	if _, err := NewManager("secret", time.Hour).Verify(raw); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid without exp, got %v", err)
	}
}
