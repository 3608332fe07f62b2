package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

// EquipmentHandler handles HTTP requests for the catalog and stock.
type EquipmentHandler struct {
	service ports.EquipmentService
}

func NewEquipmentHandler(service ports.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{service: service}
}

// List handles GET /api/equipos.
//
// @Summary      List equipment
// @Tags         equipos
// @Produce      json
// @Security     BearerAuth
// @Param        buscar     query     string  false  "Case-insensitive text over name, code and notes"
// @Param        stockBajo  query     bool    false  "Only items with stock under 10"
// @Success      200        {array}   domain.Equipment
// @Failure      401        {object}  errorResponse
// @Router       /api/equipos [get]
func (h *EquipmentHandler) List(c echo.Context) error {
	lowStock, _ := strconv.ParseBool(c.QueryParam("stockBajo"))
	items, err := h.service.List(c.Request().Context(), ports.ListEquipmentFilter{
		Search:   c.QueryParam("buscar"),
		LowStock: lowStock,
	})
	if err != nil {
		return err
	}
	if items == nil {
		items = []*domain.Equipment{}
	}
	return c.JSON(http.StatusOK, items)
}

// Stats handles GET /api/equipos/estadisticas.
//
// @Summary      Inventory statistics
// @Tags         equipos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.InventoryStats
// @Router       /api/equipos/estadisticas [get]
func (h *EquipmentHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/equipos/:id.
//
// @Summary      Get equipment by id
// @Tags         equipos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Equipment id"
// @Success      200  {object}  domain.Equipment
// @Failure      404  {object}  errorResponse
// @Router       /api/equipos/{id} [get]
func (h *EquipmentHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /api/equipos.
//
// @Summary      Create equipment
// @Tags         equipos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEquipmentRequest  true  "Equipment"
// @Success      201   {object}  domain.Equipment
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/equipos [post]
func (h *EquipmentHandler) Create(c echo.Context) error {
	var req createEquipmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toCreateEquipmentInput(req)
	if err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/equipos/:id.
//
// @Summary      Update equipment
// @Tags         equipos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Equipment id"
// @Param        body  body      updateEquipmentRequest  true  "Fields to change"
// @Success      200   {object}  domain.Equipment
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/equipos/{id} [put]
func (h *EquipmentHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateEquipmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toUpdateEquipmentInput(req)
	if err != nil {
		return err
	}

	item, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/equipos/:id.
//
// @Summary      Delete equipment
// @Tags         equipos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Equipment id"
// @Success      200  {object}  deletedResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/equipos/{id} [delete]
func (h *EquipmentHandler) Delete(c echo.Context) error {
	item, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeletedEquipmentResponse(item))
}

// AdjustStock handles PATCH /api/equipos/:id/stock with an absolute value.
//
// @Summary      Set stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Equipment id"
// @Param        body  body      adjustStockRequest  true  "New stock"
// @Success      200   {object}  domain.Equipment
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/equipos/{id}/stock [patch]
func (h *EquipmentHandler) AdjustStock(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req adjustStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.AdjustStock(c.Request().Context(), actor, c.Param("id"), req.Stock)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// MoveStock handles POST /api/equipos/:id/movimientos with a delta.
//
// @Summary      Move stock in or out
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Equipment id"
// @Param        body  body      moveStockRequest  true  "Quantity and direction"
// @Success      200   {object}  stockMoveResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/equipos/{id}/movimientos [post]
func (h *EquipmentHandler) MoveStock(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req moveStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.MoveStock(c.Request().Context(), actor, c.Param("id"), ports.MoveStockInput{
		Quantity:  req.Quantity,
		Direction: domain.StockDirection(strings.ToLower(req.Direction)),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStockMoveResponse(res))
}

// Movements handles GET /api/equipos/:id/movimientos.
//
// @Summary      Stock audit trail
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Equipment id"
// @Param        limite  query     int     false  "Maximum records (default 50)"
// @Success      200     {array}   domain.StockMovement
// @Failure      404     {object}  errorResponse
// @Router       /api/equipos/{id}/movimientos [get]
func (h *EquipmentHandler) Movements(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limite"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return domain.Invalid("limite must be a positive integer")
		}
		limit = n
	}

	movements, err := h.service.Movements(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	if movements == nil {
		movements = []domain.StockMovement{}
	}
	return c.JSON(http.StatusOK, movements)
}
