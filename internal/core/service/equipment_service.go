package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

// Bounds for the number of audit records returned by Movements.
const (
	DefaultMovementLimit = 50
	MaxMovementLimit     = 500
)

// EquipmentService implements the catalog and stock use cases.
type EquipmentService struct {
	repo      ports.EquipmentRepository
	movements ports.MovementRepository
	publisher ports.MovementPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewEquipmentService(
	repo ports.EquipmentRepository,
	movements ports.MovementRepository,
	publisher ports.MovementPublisher,
	logger zerolog.Logger,
) *EquipmentService {
	return &EquipmentService{
		repo:      repo,
		movements: movements,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *EquipmentService) List(ctx context.Context, filter ports.ListEquipmentFilter) ([]*domain.Equipment, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *EquipmentService) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	return s.repo.FindByID(ctx, id)
}

// Create inserts a catalog item. Code uniqueness is left to the store.
func (s *EquipmentService) Create(ctx context.Context, input ports.CreateEquipmentInput) (*domain.Equipment, error) {
	ctx, span, end := startSpan(ctx, "EquipmentService.Create")
	var err error
	defer func() { end(err) }()

	code := domain.NormalizeCode(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" || input.PurchaseDate.IsZero() {
		err = domain.Invalid("code, name and purchaseDate are required")
		return nil, err
	}
	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < 0 {
		err = domain.Invalid("stock must be zero or greater")
		return nil, err
	}
	span.SetAttributes(attribute.String("equipment.code", code))

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.Equipment{
		Code:         code,
		Name:         name,
		PurchaseDate: input.PurchaseDate.UTC(),
		Stock:        stock,
		Notes:        strings.TrimSpace(input.Notes),
		LastUpdated:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("equipment_id", created.ID).Str("code", created.Code).Int("stock", created.Stock).Msg("equipment created")
	return created, nil
}

// Update applies a partial change in a single store write. When the stock
// field changes, an adjust movement is published with the values around the
// write, the same as AdjustStock.
func (s *EquipmentService) Update(ctx context.Context, actor domain.Actor, id string, input ports.UpdateEquipmentInput) (*domain.Equipment, error) {
	ctx, span, end := startSpan(ctx, "EquipmentService.Update")
	var err error
	defer func() { end(err) }()
	span.SetAttributes(attribute.String("equipment.id", id))

	var changes ports.EquipmentChanges
	if input.Code != nil {
		code := domain.NormalizeCode(*input.Code)
		if code == "" {
			err = domain.Invalid("code cannot be empty")
			return nil, err
		}
		changes.Code = &code
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			err = domain.Invalid("name cannot be empty")
			return nil, err
		}
		changes.Name = &name
	}
	if input.PurchaseDate != nil {
		if input.PurchaseDate.IsZero() {
			err = domain.Invalid("purchaseDate cannot be empty")
			return nil, err
		}
		d := input.PurchaseDate.UTC()
		changes.PurchaseDate = &d
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			err = domain.Invalid("stock must be zero or greater")
			return nil, err
		}
		changes.Stock = input.Stock
	}
	if input.Notes != nil {
		notes := strings.TrimSpace(*input.Notes)
		changes.Notes = &notes
	}
	if changes.Empty() {
		err = domain.Invalid("nothing to update")
		return nil, err
	}

	now := s.now()
	before, updated, err := s.repo.Update(ctx, id, changes, now)
	if err != nil {
		return nil, err
	}

	if changes.Stock != nil && before.Stock != updated.Stock {
		s.publish(domain.StockMovement{
			EquipmentID: updated.ID,
			Code:        updated.Code,
			Kind:        domain.MovementAdjust,
			Quantity:    abs(updated.Stock - before.Stock),
			Before:      before.Stock,
			After:       updated.Stock,
			ActorID:     actor.UserID,
			Timestamp:   now,
		})
	}

	s.logger.Info().Str("equipment_id", id).Msg("equipment updated")
	return updated, nil
}

func (s *EquipmentService) Delete(ctx context.Context, id string) (*domain.Equipment, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("equipment_id", id).Str("code", deleted.Code).Msg("equipment deleted")
	return deleted, nil
}

func (s *EquipmentService) Stats(ctx context.Context) (domain.InventoryStats, error) {
	return s.repo.Stats(ctx)
}

// Movements returns the audit trail of an item, newest first.
func (s *EquipmentService) Movements(ctx context.Context, id string, limit int) ([]domain.StockMovement, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	if limit > MaxMovementLimit {
		limit = MaxMovementLimit
	}
	return s.movements.ListByEquipment(ctx, id, limit)
}

// AdjustStock overwrites the stock with an absolute value.
func (s *EquipmentService) AdjustStock(ctx context.Context, actor domain.Actor, id string, stock *int) (*domain.Equipment, error) {
	ctx, span, end := startSpan(ctx, "EquipmentService.AdjustStock")
	var err error
	defer func() { end(err) }()
	span.SetAttributes(attribute.String("equipment.id", id))

	if stock == nil {
		err = domain.Invalid("stock is required")
		return nil, err
	}
	if *stock < 0 {
		err = domain.Invalid("stock must be zero or greater")
		return nil, err
	}

	now := s.now()
	before, after, err := s.repo.SetStock(ctx, id, *stock, now)
	if err != nil {
		return nil, err
	}

	s.publish(domain.StockMovement{
		EquipmentID: after.ID,
		Code:        after.Code,
		Kind:        domain.MovementAdjust,
		Quantity:    abs(after.Stock - before.Stock),
		Before:      before.Stock,
		After:       after.Stock,
		ActorID:     actor.UserID,
		Timestamp:   now,
	})
	return after, nil
}

// MoveStock applies a delta. Outgoing moves only succeed when enough units
// remain; the check and the write are one conditional update.
func (s *EquipmentService) MoveStock(ctx context.Context, actor domain.Actor, id string, input ports.MoveStockInput) (*ports.StockMoveResult, error) {
	ctx, span, end := startSpan(ctx, "EquipmentService.MoveStock")
	var err error
	defer func() { end(err) }()
	span.SetAttributes(
		attribute.String("equipment.id", id),
		attribute.String("stock.direction", string(input.Direction)),
		attribute.Int("stock.quantity", input.Quantity),
	)

	if !input.Direction.Valid() {
		err = domain.Invalid("direction must be in or out")
		return nil, err
	}
	if input.Quantity <= 0 {
		err = domain.Invalid("quantity must be greater than zero")
		return nil, err
	}

	now := s.now()
	var (
		updated *domain.Equipment
		kind    domain.MovementKind
	)
	if input.Direction == domain.DirectionOut {
		kind = domain.MovementOut
		updated, err = s.repo.DecrementStock(ctx, id, input.Quantity, now)
	} else {
		kind = domain.MovementIn
		updated, err = s.repo.IncrementStock(ctx, id, input.Quantity, now)
	}
	if err != nil {
		return nil, err
	}

	previous := updated.Stock + input.Quantity
	if input.Direction == domain.DirectionIn {
		previous = updated.Stock - input.Quantity
	}

	s.publish(domain.StockMovement{
		EquipmentID: updated.ID,
		Code:        updated.Code,
		Kind:        kind,
		Quantity:    input.Quantity,
		Before:      previous,
		After:       updated.Stock,
		ActorID:     actor.UserID,
		Timestamp:   now,
	})

	return &ports.StockMoveResult{
		Equipment:     updated,
		PreviousStock: previous,
		CurrentStock:  updated.Stock,
		Quantity:      input.Quantity,
		Direction:     input.Direction,
	}, nil
}

func (s *EquipmentService) publish(m domain.StockMovement) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(m)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
