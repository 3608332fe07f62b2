package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sipe/inventory-api/internal/core/ports"
)

// HeaderIdempotencyKey lets a client retry a checkout without applying it twice.
const HeaderIdempotencyKey = "Idempotency-Key"

type CheckoutHandler struct {
	service ports.CheckoutService
}

func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// Checkout handles POST /api/equipos/checkout.
//
// @Summary      Check out a cart
// @Description  Applies every line or none. A rejected cart answers 409 with the per-line outcome.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Client retry key"
// @Param        body             body      checkoutRequest  true   "Cart"
// @Success      200              {object}  checkoutResponse
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  checkoutResponse
// @Router       /api/equipos/checkout [post]
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Checkout(c.Request().Context(), ports.CheckoutInput{
		Lines:          toCartLines(req.Items),
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)),
		Actor:          actor,
	})
	if err != nil {
		return err
	}

	status := http.StatusOK
	if !res.Committed {
		status = http.StatusConflict
	}
	return c.JSON(status, toCheckoutResponse(res))
}
