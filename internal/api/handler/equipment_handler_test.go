package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

func TestEquipmentHandler_List_PassesFilter(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		listFn: func(ctx context.Context, f ports.ListEquipmentFilter) ([]*domain.Equipment, error) {
			if f.Search != "laptop" || !f.LowStock {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return nil, nil
		},
	}
	handler := NewEquipmentHandler(stub)

	c, rec := newContext(e, http.MethodGet, "/api/equipos?buscar=laptop&stockBajo=true", "", userActor)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestEquipmentHandler_Create(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		createFn: func(ctx context.Context, in ports.CreateEquipmentInput) (*domain.Equipment, error) {
			want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			if in.Code != "lap-1" || !in.PurchaseDate.Equal(want) || in.Stock == nil || *in.Stock != 4 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Equipment{ID: "e1", Code: "LAP-1", Name: in.Name, Stock: *in.Stock}, nil
		},
	}
	handler := NewEquipmentHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/api/equipos",
		`{"code":"lap-1","name":"Laptop","purchaseDate":"2024-03-01","stock":4}`, adminActor)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var got domain.Equipment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Code != "LAP-1" || got.Stock != 4 {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestEquipmentHandler_Create_BadDate(t *testing.T) {
	e := newEcho()
	handler := NewEquipmentHandler(&stubEquipmentService{})

	c, _ := newContext(e, http.MethodPost, "/api/equipos",
		`{"code":"lap-1","name":"Laptop","purchaseDate":"01/03/2024"}`, adminActor)
	if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEquipmentHandler_Create_MissingFields(t *testing.T) {
	e := newEcho()
	handler := NewEquipmentHandler(&stubEquipmentService{})

	c, _ := newContext(e, http.MethodPost, "/api/equipos", `{"name":"Laptop"}`, adminActor)
	err := handler.Create(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Reason != "code is required; purchaseDate is required" {
		t.Fatalf("unexpected reason %q", ve.Reason)
	}
}

func TestEquipmentHandler_Update_PartialDate(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		updateFn: func(ctx context.Context, actor domain.Actor, id string, in ports.UpdateEquipmentInput) (*domain.Equipment, error) {
			if id != "e1" || in.PurchaseDate == nil || in.Name != nil || in.Code != nil {
				t.Fatalf("unexpected update: %s %+v", id, in)
			}
			if actor.Role != domain.RoleAdmin {
				t.Fatalf("expected the admin actor, got %+v", actor)
			}
			return &domain.Equipment{ID: id}, nil
		},
	}
	handler := NewEquipmentHandler(stub)

	c, rec := newContext(e, http.MethodPut, "/api/equipos/e1", `{"purchaseDate":"2023-12-31T10:00:00Z"}`, adminActor)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEquipmentHandler_AdjustStock_RequiresValue(t *testing.T) {
	e := newEcho()
	handler := NewEquipmentHandler(&stubEquipmentService{})

	c, _ := newContext(e, http.MethodPatch, "/api/equipos/e1/stock", `{}`, userActor)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.AdjustStock(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEquipmentHandler_AdjustStock_ZeroIsValid(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		adjustFn: func(ctx context.Context, actor domain.Actor, id string, stock *int) (*domain.Equipment, error) {
			if actor != userActor || stock == nil || *stock != 0 {
				t.Fatalf("unexpected call: %+v %v", actor, stock)
			}
			return &domain.Equipment{ID: id, Stock: 0}, nil
		},
	}
	handler := NewEquipmentHandler(stub)

	c, rec := newContext(e, http.MethodPatch, "/api/equipos/e1/stock", `{"stock":0}`, userActor)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.AdjustStock(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEquipmentHandler_MoveStock(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		moveFn: func(ctx context.Context, actor domain.Actor, id string, in ports.MoveStockInput) (*ports.StockMoveResult, error) {
			if in.Direction != domain.DirectionOut || in.Quantity != 3 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.StockMoveResult{
				Equipment:     &domain.Equipment{ID: id, Stock: 2},
				PreviousStock: 5,
				CurrentStock:  2,
				Quantity:      3,
				Direction:     domain.DirectionOut,
			}, nil
		},
	}
	handler := NewEquipmentHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/api/equipos/e1/movimientos", `{"quantity":3,"direction":"out"}`, userActor)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.MoveStock(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp stockMoveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.PreviousStock != 5 || resp.CurrentStock != 2 || resp.Direction != "out" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEquipmentHandler_MoveStock_BadDirection(t *testing.T) {
	e := newEcho()
	handler := NewEquipmentHandler(&stubEquipmentService{})

	c, _ := newContext(e, http.MethodPost, "/api/equipos/e1/movimientos", `{"quantity":3,"direction":"sideways"}`, userActor)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.MoveStock(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEquipmentHandler_MoveStock_Insufficient(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		moveFn: func(ctx context.Context, actor domain.Actor, id string, in ports.MoveStockInput) (*ports.StockMoveResult, error) {
			return nil, domain.ErrInsufficientStock
		},
	}
	handler := NewEquipmentHandler(stub)

	c, _ := newContext(e, http.MethodPost, "/api/equipos/e1/movimientos", `{"quantity":9,"direction":"out"}`, userActor)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.MoveStock(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected insufficient stock validation error, got %v", err)
	}
}

func TestEquipmentHandler_Movements_Limit(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		movementsFn: func(ctx context.Context, id string, limit int) ([]domain.StockMovement, error) {
			if limit != 20 {
				t.Fatalf("expected limit 20, got %d", limit)
			}
			return []domain.StockMovement{{EquipmentID: id, Kind: domain.MovementOut}}, nil
		},
	}
	handler := NewEquipmentHandler(stub)

	c, rec := newContext(e, http.MethodGet, "/api/equipos/e1/movimientos?limite=20", "", userActor)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.Movements(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(e, http.MethodGet, "/api/equipos/e1/movimientos?limite=abc", "", userActor)
	if err := handler.Movements(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad limit, got %v", err)
	}
}

func TestEquipmentHandler_Delete(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		deleteFn: func(ctx context.Context, id string) (*domain.Equipment, error) {
			return &domain.Equipment{ID: id, Code: "LAP-1", Name: "Laptop"}, nil
		},
	}
	handler := NewEquipmentHandler(stub)

	c, rec := newContext(e, http.MethodDelete, "/api/equipos/e1", "", adminActor)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp deletedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "e1" || resp.Code != "LAP-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEquipmentHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubEquipmentService{
		getFn: func(ctx context.Context, id string) (*domain.Equipment, error) {
			return nil, domain.ErrEquipmentNotFound
		},
	}
	handler := NewEquipmentHandler(stub)

	c, _ := newContext(e, http.MethodGet, "/api/equipos/missing", "", userActor)
	if err := handler.Get(c); !errors.Is(err, domain.ErrEquipmentNotFound) {
		t.Fatalf("expected ErrEquipmentNotFound, got %v", err)
	}
}
