package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sipe/inventory-api/internal/api/middleware"
	"github.com/sipe/inventory-api/internal/core/domain"
)

// ctxActor extracts the actor injected by the Auth middleware. An empty user
// id means the middleware did not run; the request is treated as
// unauthenticated.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor := middleware.ActorFrom(c)
	if actor.UserID == "" || actor.Role == "" {
		return domain.Actor{}, domain.ErrMissingToken
	}
	return actor, nil
}

// bindAndValidate binds the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
