package ports

import (
	"context"
	"time"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// ListEquipmentFilter carries the query parameters for listing equipment.
type ListEquipmentFilter struct {
	Search   string // optional: case-insensitive substring over name, code and notes
	LowStock bool   // optional: only items with stock under domain.LowStockThreshold
}

// EquipmentChanges lists the fields an update may set. Nil means unchanged.
type EquipmentChanges struct {
	Code         *string
	Name         *string
	PurchaseDate *time.Time
	Stock        *int
	Notes        *string
}

// ApplyTo copies the set fields onto e.
func (c EquipmentChanges) ApplyTo(e *domain.Equipment) {
	if c.Code != nil {
		e.Code = *c.Code
	}
	if c.Name != nil {
		e.Name = *c.Name
	}
	if c.PurchaseDate != nil {
		e.PurchaseDate = *c.PurchaseDate
	}
	if c.Stock != nil {
		e.Stock = *c.Stock
	}
	if c.Notes != nil {
		e.Notes = *c.Notes
	}
}

func (c EquipmentChanges) Empty() bool {
	return c.Code == nil && c.Name == nil && c.PurchaseDate == nil && c.Stock == nil && c.Notes == nil
}

// EquipmentRepository defines persistence operations for the catalog.
// Every stock mutation is a single atomic document update; none of them read
// the current value first.
type EquipmentRepository interface {
	// Create returns domain.ErrCodeExists when the code index rejects the insert.
	Create(ctx context.Context, e *domain.Equipment) (*domain.Equipment, error)
	FindByID(ctx context.Context, id string) (*domain.Equipment, error)
	// List returns items matching filter, most recently updated first.
	List(ctx context.Context, filter ListEquipmentFilter) ([]*domain.Equipment, error)
	// Update applies changes in one write and returns the item before and after.
	Update(ctx context.Context, id string, changes EquipmentChanges, at time.Time) (before, after *domain.Equipment, err error)
	Delete(ctx context.Context, id string) (*domain.Equipment, error)
	Stats(ctx context.Context) (domain.InventoryStats, error)

	// SetStock overwrites the stock and returns the item before and after.
	SetStock(ctx context.Context, id string, stock int, at time.Time) (before, after *domain.Equipment, err error)
	// IncrementStock adds delta (> 0) and returns the updated item.
	IncrementStock(ctx context.Context, id string, delta int, at time.Time) (*domain.Equipment, error)
	// DecrementStock subtracts quantity only when stock >= quantity. It returns
	// domain.ErrInsufficientStock when the item exists but holds fewer units.
	DecrementStock(ctx context.Context, id string, quantity int, at time.Time) (*domain.Equipment, error)
}
