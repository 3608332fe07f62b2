package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// RBAC enforces role-based access control.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// AdminOnly is RBAC(domain.RoleAdmin).
func AdminOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}

// SelfOrAdmin lets the request through when the path parameter param names
// the authenticated user, or when the user is an admin.
func SelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ActorFrom(c).CanAccessUser(c.Param(param)) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
