package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// TokenVerifier resolves a raw bearer token into the actor it was issued to.
type TokenVerifier interface {
	Verify(token string) (domain.Actor, error)
}

// Auth validates the bearer token and injects the actor into context.
// A missing token yields domain.ErrMissingToken (403); a malformed, forged or
// expired one yields the verifier's error (401).
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrTokenInvalid
			}

			actor, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(ContextUserID, actor.UserID)
			c.Set(ContextRole, actor.Role)

			return next(c)
		}
	}
}

// ActorFrom returns the actor injected by Auth.
func ActorFrom(c echo.Context) domain.Actor {
	userID, _ := c.Get(ContextUserID).(string)
	role, _ := c.Get(ContextRole).(string)
	return domain.Actor{UserID: userID, Role: role}
}
