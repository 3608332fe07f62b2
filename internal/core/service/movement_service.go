package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sipe/inventory-api/internal/api/metrics"
	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

type movementService struct {
	repo ports.MovementRepository
	log  zerolog.Logger
}

// NewMovementService returns the MovementRecorder run by the dispatcher workers.
func NewMovementService(repo ports.MovementRepository, log zerolog.Logger) ports.MovementRecorder {
	return &movementService{repo: repo, log: log}
}

// Record persists one stock movement and raises a low-stock alert when the
// item is left with few units.
func (s *movementService) Record(ctx context.Context, m domain.StockMovement) error {
	if m.EquipmentID == "" {
		return fmt.Errorf("record movement: %w", domain.Invalid("equipment id is required"))
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		metrics.StockMovementErrorsTotal.Inc()
		return fmt.Errorf("record movement: %w", err)
	}
	metrics.StockMovementsTotal.WithLabelValues(string(m.Kind)).Inc()

	// Only movements that lowered the stock raise an alert.
	if m.After < m.Before && domain.NeedsRestockNotice(m.After) {
		metrics.LowStockAlertsTotal.Inc()
		s.log.Warn().
			Str("equipment_id", m.EquipmentID).
			Str("code", m.Code).
			Int("stock", m.After).
			Msg("low stock")
	}

	s.log.Debug().
		Str("equipment_id", m.EquipmentID).
		Str("kind", string(m.Kind)).
		Int("before", m.Before).
		Int("after", m.After).
		Str("reference", m.Reference).
		Msg("movement recorded")
	return nil
}
