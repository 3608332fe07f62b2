package ports

import (
	"context"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// MovementPublisher hands a stock movement off for asynchronous recording.
// Publish must not block on storage.
type MovementPublisher interface {
	Publish(m domain.StockMovement)
}

// MovementRecorder processes one stock movement: audit write and alerts.
type MovementRecorder interface {
	Record(ctx context.Context, m domain.StockMovement) error
}
