package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

func TestCheckoutHandler_Committed(t *testing.T) {
	e := newEcho()
	stub := &stubCheckoutService{
		checkoutFn: func(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
			if in.IdempotencyKey != "k-1" || in.Actor != userActor || len(in.Lines) != 2 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.CheckoutResult{
				ID:        "co-1",
				Committed: true,
				Lines: []ports.CheckoutLineResult{
					{EquipmentID: "a", Quantity: 1, Status: ports.LineApplied, Before: 5, After: 4},
					{EquipmentID: "b", Quantity: 2, Status: ports.LineApplied, Before: 20, After: 18},
				},
				LowStock: []ports.LowStockNotice{{EquipmentID: "a", Stock: 4}},
			}, nil
		},
	}
	handler := NewCheckoutHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/api/equipos/checkout",
		`{"items":[{"equipmentId":"a","quantity":1},{"equipmentId":"b","quantity":2}]}`, userActor)
	c.Request().Header.Set(HeaderIdempotencyKey, " k-1 ")

	if err := handler.Checkout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp checkoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Committed || len(resp.Items) != 2 || len(resp.LowStock) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCheckoutHandler_RejectedIs409(t *testing.T) {
	e := newEcho()
	stub := &stubCheckoutService{
		checkoutFn: func(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
			return &ports.CheckoutResult{
				ID: "co-2",
				Lines: []ports.CheckoutLineResult{
					{EquipmentID: "a", Quantity: 1, Status: ports.LineRolledBack},
					{EquipmentID: "b", Quantity: 99, Status: ports.LineFailed, Reason: "insufficient stock"},
				},
			}, nil
		},
	}
	handler := NewCheckoutHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/api/equipos/checkout",
		`{"items":[{"equipmentId":"a","quantity":1},{"equipmentId":"b","quantity":99}]}`, userActor)

	if err := handler.Checkout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp checkoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Committed || resp.Items[1].Reason != "insufficient stock" || resp.LowStock == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	e := newEcho()
	handler := NewCheckoutHandler(&stubCheckoutService{})

	c, _ := newContext(e, http.MethodPost, "/api/equipos/checkout", `{"items":[]}`, userActor)
	if err := handler.Checkout(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutHandler_NonPositiveQuantity(t *testing.T) {
	e := newEcho()
	handler := NewCheckoutHandler(&stubCheckoutService{})

	c, _ := newContext(e, http.MethodPost, "/api/equipos/checkout", `{"items":[{"equipmentId":"a","quantity":0}]}`, userActor)
	if err := handler.Checkout(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutHandler_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubCheckoutService{
		checkoutFn: func(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
			return nil, domain.ErrDuplicateCheckout
		},
	}
	handler := NewCheckoutHandler(stub)

	c, _ := newContext(e, http.MethodPost, "/api/equipos/checkout", `{"items":[{"equipmentId":"a","quantity":1}]}`, userActor)
	if err := handler.Checkout(c); !errors.Is(err, domain.ErrDuplicateCheckout) {
		t.Fatalf("expected ErrDuplicateCheckout, got %v", err)
	}
}
