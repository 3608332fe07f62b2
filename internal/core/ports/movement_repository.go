package ports

import (
	"context"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// MovementRepository persists the stock audit trail.
type MovementRepository interface {
	Insert(ctx context.Context, m domain.StockMovement) error
	// ListByEquipment returns the newest movements first, at most limit.
	ListByEquipment(ctx context.Context, equipmentID string, limit int) ([]domain.StockMovement, error)
}
