package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sipe/inventory-api/internal/api/middleware"
	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context. An empty body sends no payload; a
// non-zero actor is injected the way the Auth middleware would.
func newContext(e *echo.Echo, method, target, body string, actor domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor.UserID != "" {
		c.Set(middleware.ContextUserID, actor.UserID)
		c.Set(middleware.ContextRole, actor.Role)
	}
	return c, rec
}

var (
	adminActor = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	userActor  = domain.Actor{UserID: "user-1", Role: domain.RoleUser}
	noActor    = domain.Actor{}
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, email, password, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Verify(string) (domain.Actor, error) {
	return domain.Actor{}, domain.ErrTokenInvalid
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

type stubEquipmentService struct {
	listFn      func(ctx context.Context, f ports.ListEquipmentFilter) ([]*domain.Equipment, error)
	getFn       func(ctx context.Context, id string) (*domain.Equipment, error)
	createFn    func(ctx context.Context, in ports.CreateEquipmentInput) (*domain.Equipment, error)
	updateFn    func(ctx context.Context, actor domain.Actor, id string, in ports.UpdateEquipmentInput) (*domain.Equipment, error)
	deleteFn    func(ctx context.Context, id string) (*domain.Equipment, error)
	statsFn     func(ctx context.Context) (domain.InventoryStats, error)
	movementsFn func(ctx context.Context, id string, limit int) ([]domain.StockMovement, error)
	adjustFn    func(ctx context.Context, actor domain.Actor, id string, stock *int) (*domain.Equipment, error)
	moveFn      func(ctx context.Context, actor domain.Actor, id string, in ports.MoveStockInput) (*ports.StockMoveResult, error)
}

func (s *stubEquipmentService) List(ctx context.Context, f ports.ListEquipmentFilter) ([]*domain.Equipment, error) {
	return s.listFn(ctx, f)
}

func (s *stubEquipmentService) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	return s.getFn(ctx, id)
}

func (s *stubEquipmentService) Create(ctx context.Context, in ports.CreateEquipmentInput) (*domain.Equipment, error) {
	return s.createFn(ctx, in)
}

func (s *stubEquipmentService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateEquipmentInput) (*domain.Equipment, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubEquipmentService) Delete(ctx context.Context, id string) (*domain.Equipment, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubEquipmentService) Stats(ctx context.Context) (domain.InventoryStats, error) {
	return s.statsFn(ctx)
}

func (s *stubEquipmentService) Movements(ctx context.Context, id string, limit int) ([]domain.StockMovement, error) {
	return s.movementsFn(ctx, id, limit)
}

func (s *stubEquipmentService) AdjustStock(ctx context.Context, actor domain.Actor, id string, stock *int) (*domain.Equipment, error) {
	return s.adjustFn(ctx, actor, id, stock)
}

func (s *stubEquipmentService) MoveStock(ctx context.Context, actor domain.Actor, id string, in ports.MoveStockInput) (*ports.StockMoveResult, error) {
	return s.moveFn(ctx, actor, id, in)
}

type stubCheckoutService struct {
	checkoutFn func(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error)
}

func (s *stubCheckoutService) Checkout(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
	return s.checkoutFn(ctx, in)
}

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	getFn    func(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, actor domain.Actor, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) { return s.listFn(ctx) }

func (s *stubUserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) ResetPassword(context.Context, string, string) error { return nil }
