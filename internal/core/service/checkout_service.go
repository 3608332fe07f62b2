package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sipe/inventory-api/internal/api/metrics"
	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

// CheckoutService turns a cart into stock decrements, all or nothing.
type CheckoutService struct {
	repo      ports.EquipmentRepository
	guard     ports.CheckoutGuard
	publisher ports.MovementPublisher
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

func NewCheckoutService(
	repo ports.EquipmentRepository,
	guard ports.CheckoutGuard,
	publisher ports.MovementPublisher,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		repo:      repo,
		guard:     guard,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Checkout applies every line as a conditional decrement. When a line fails,
// the lines already applied are compensated and the result is not committed.
// A non-nil error means the checkout was not attempted.
func (s *CheckoutService) Checkout(ctx context.Context, input ports.CheckoutInput) (*ports.CheckoutResult, error) {
	ctx, span, end := startSpan(ctx, "CheckoutService.Checkout")
	var err error
	defer func() { end(err) }()

	lines, err := mergeLines(input.Lines)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("checkout.lines", len(lines)))

	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" && s.guard != nil {
		var acquired bool
		acquired, err = s.guard.Acquire(ctx, key)
		if err != nil {
			metrics.CheckoutsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("checkout: acquire idempotency key: %w", err)
		}
		if !acquired {
			metrics.CheckoutsTotal.WithLabelValues("duplicate").Inc()
			s.logger.Info().Str("idempotency_key", key).Msg("duplicate checkout rejected")
			err = domain.ErrDuplicateCheckout
			return nil, err
		}
	}

	result := &ports.CheckoutResult{
		ID:    s.newID(),
		Lines: make([]ports.CheckoutLineResult, len(lines)),
	}
	span.SetAttributes(attribute.String("checkout.id", result.ID))
	for i, l := range lines {
		result.Lines[i] = ports.CheckoutLineResult{
			EquipmentID: l.EquipmentID,
			Quantity:    l.Quantity,
			Status:      ports.LineSkipped,
		}
	}

	now := s.now()
	failed := -1
	for i, l := range lines {
		updated, decErr := s.repo.DecrementStock(ctx, l.EquipmentID, l.Quantity, now)
		if decErr != nil {
			if !isLineFailure(decErr) {
				// Store failure: undo what was applied and surface the error.
				s.compensate(ctx, result, i, input.Actor, now)
				s.releaseKey(ctx, key)
				metrics.CheckoutsTotal.WithLabelValues("error").Inc()
				err = fmt.Errorf("checkout %s: %w", result.ID, decErr)
				return nil, err
			}
			result.Lines[i].Status = ports.LineFailed
			result.Lines[i].Reason = decErr.Error()
			failed = i
			break
		}

		line := &result.Lines[i]
		line.Code = updated.Code
		line.Name = updated.Name
		line.Before = updated.Stock + l.Quantity
		line.After = updated.Stock
		line.Status = ports.LineApplied

		s.publish(domain.StockMovement{
			EquipmentID: updated.ID,
			Code:        updated.Code,
			Kind:        domain.MovementCheckout,
			Quantity:    l.Quantity,
			Before:      line.Before,
			After:       line.After,
			ActorID:     input.Actor.UserID,
			Reference:   result.ID,
			Timestamp:   now,
		})
	}

	if failed >= 0 {
		s.compensate(ctx, result, failed, input.Actor, now)
		s.releaseKey(ctx, key)
		metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		s.logger.Info().
			Str("checkout_id", result.ID).
			Str("equipment_id", result.Lines[failed].EquipmentID).
			Str("reason", result.Lines[failed].Reason).
			Msg("checkout rejected")
		return result, nil
	}

	result.Committed = true
	for _, line := range result.Lines {
		if domain.NeedsRestockNotice(line.After) {
			result.LowStock = append(result.LowStock, ports.LowStockNotice{
				EquipmentID: line.EquipmentID,
				Code:        line.Code,
				Name:        line.Name,
				Stock:       line.After,
			})
		}
	}

	metrics.CheckoutsTotal.WithLabelValues("committed").Inc()
	s.logger.Info().
		Str("checkout_id", result.ID).
		Str("actor_id", input.Actor.UserID).
		Int("lines", len(result.Lines)).
		Int("low_stock", len(result.LowStock)).
		Msg("checkout committed")
	return result, nil
}

// compensate re-increments every applied line before index upto.
func (s *CheckoutService) compensate(ctx context.Context, result *ports.CheckoutResult, upto int, actor domain.Actor, at time.Time) {
	for i := 0; i < upto; i++ {
		line := &result.Lines[i]
		if line.Status != ports.LineApplied {
			continue
		}
		restored, err := s.repo.IncrementStock(context.WithoutCancel(ctx), line.EquipmentID, line.Quantity, at)
		if err != nil {
			// The units stay deducted; the log line is the only record.
			s.logger.Error().Err(err).
				Str("checkout_id", result.ID).
				Str("equipment_id", line.EquipmentID).
				Int("quantity", line.Quantity).
				Msg("checkout compensation failed")
			line.Reason = "compensation failed"
			continue
		}
		line.Status = ports.LineRolledBack
		line.After = restored.Stock

		s.publish(domain.StockMovement{
			EquipmentID: restored.ID,
			Code:        restored.Code,
			Kind:        domain.MovementCompensation,
			Quantity:    line.Quantity,
			Before:      restored.Stock - line.Quantity,
			After:       restored.Stock,
			ActorID:     actor.UserID,
			Reference:   result.ID,
			Timestamp:   at,
		})
	}
}

func (s *CheckoutService) releaseKey(ctx context.Context, key string) {
	if key == "" || s.guard == nil {
		return
	}
	if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

func (s *CheckoutService) publish(m domain.StockMovement) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(m)
}

// mergeLines validates the cart and sums quantities per item, keeping the
// order in which items first appear.
func mergeLines(lines []ports.CartLine) ([]ports.CartLine, error) {
	if len(lines) == 0 {
		return nil, domain.Invalid("cart must contain at least one item")
	}
	merged := make([]ports.CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.EquipmentID)
		if id == "" {
			return nil, domain.Invalid("every item needs an equipmentId")
		}
		if l.Quantity <= 0 {
			return nil, domain.Invalid("quantity must be greater than zero")
		}
		if i, ok := index[id]; ok {
			if merged[i].Quantity > math.MaxInt-l.Quantity {
				return nil, domain.Invalid("quantity is too large")
			}
			merged[i].Quantity += l.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, ports.CartLine{EquipmentID: id, Quantity: l.Quantity})
	}
	return merged, nil
}

// isLineFailure reports whether err rejects the line rather than the store.
func isLineFailure(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrEquipmentNotFound)
}
