package ports

import (
	"context"
	"time"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// CreateEquipmentInput carries all data needed to create a catalog item.
type CreateEquipmentInput struct {
	Code         string
	Name         string
	PurchaseDate time.Time
	Stock        *int // nil defaults to 0
	Notes        string
}

// UpdateEquipmentInput carries a partial update.
type UpdateEquipmentInput struct {
	Code         *string
	Name         *string
	PurchaseDate *time.Time
	Stock        *int
	Notes        *string
}

// MoveStockInput carries a delta movement.
type MoveStockInput struct {
	Quantity  int
	Direction domain.StockDirection
}

// StockMoveResult reports a delta movement with the quantities around it.
type StockMoveResult struct {
	Equipment     *domain.Equipment
	PreviousStock int
	CurrentStock  int
	Quantity      int
	Direction     domain.StockDirection
}

// EquipmentService defines the catalog and stock use cases.
type EquipmentService interface {
	List(ctx context.Context, filter ListEquipmentFilter) ([]*domain.Equipment, error)
	Get(ctx context.Context, id string) (*domain.Equipment, error)
	Create(ctx context.Context, input CreateEquipmentInput) (*domain.Equipment, error)
	// Update applies a partial change. A stock change is audited like AdjustStock.
	Update(ctx context.Context, actor domain.Actor, id string, input UpdateEquipmentInput) (*domain.Equipment, error)
	Delete(ctx context.Context, id string) (*domain.Equipment, error)
	Stats(ctx context.Context) (domain.InventoryStats, error)
	Movements(ctx context.Context, id string, limit int) ([]domain.StockMovement, error)

	// AdjustStock sets an absolute stock value. A nil value is rejected.
	AdjustStock(ctx context.Context, actor domain.Actor, id string, stock *int) (*domain.Equipment, error)
	MoveStock(ctx context.Context, actor domain.Actor, id string, input MoveStockInput) (*StockMoveResult, error)
}

// --- Checkout ---

// CartLine is one requested (item, quantity) pair.
type CartLine struct {
	EquipmentID string
	Quantity    int
}

// CheckoutLineStatus is the outcome of a single cart line.
type CheckoutLineStatus string

const (
	LineApplied    CheckoutLineStatus = "applied"
	LineRolledBack CheckoutLineStatus = "rolled_back"
	LineFailed     CheckoutLineStatus = "failed"
	LineSkipped    CheckoutLineStatus = "skipped"
)

// CheckoutLineResult reports what happened to one cart line.
type CheckoutLineResult struct {
	EquipmentID string
	Code        string
	Name        string
	Quantity    int
	Status      CheckoutLineStatus
	Before      int
	After       int
	Reason      string
}

// LowStockNotice flags an item left with few units after a checkout.
type LowStockNotice struct {
	EquipmentID string
	Code        string
	Name        string
	Stock       int
}

// CheckoutResult is returned for every checkout that was attempted.
// Committed is false when a line failed and the applied lines were undone.
type CheckoutResult struct {
	ID        string
	Committed bool
	Lines     []CheckoutLineResult
	LowStock  []LowStockNotice
}

// CheckoutInput carries the cart and the optional idempotency key.
type CheckoutInput struct {
	Lines          []CartLine
	IdempotencyKey string
	Actor          domain.Actor
}

type CheckoutService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
}

// CheckoutGuard deduplicates checkouts by client-supplied key.
type CheckoutGuard interface {
	// Acquire returns false when the key has already been used.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
