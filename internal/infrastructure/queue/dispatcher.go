package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sipe/inventory-api/internal/api/metrics"
	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes stock movements to a fixed set of workers using
// consistent hashing on the equipment id, keeping each item's audit trail in
// order.
type Dispatcher struct {
	workers  []chan domain.StockMovement
	recorder ports.MovementRecorder
	log      zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.MovementRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.StockMovement, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StockMovement, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Shutdown closes
// their channels; ctx is passed to every Record call.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands a movement to the worker responsible for its equipment id.
// It never blocks the caller: when that worker's buffer is full, or after
// Shutdown, the movement is dropped, logged and counted.
func (d *Dispatcher) Publish(m domain.StockMovement) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(m, "shutdown")
		return
	}
	idx := d.shardIndex(m.EquipmentID)
	select {
	case d.workers[idx] <- m:
		metrics.MovementQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(m, "queue_full")
	}
}

func (d *Dispatcher) drop(m domain.StockMovement, reason string) {
	metrics.MovementsDroppedTotal.WithLabelValues(reason).Inc()
	d.log.Warn().
		Str("equipment_id", m.EquipmentID).
		Str("kind", string(m.Kind)).
		Str("reason", reason).
		Msg("movement dropped")
}

// Shutdown closes every worker channel and waits for the pending movements to
// be recorded, or for ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an equipment id deterministically to a worker index.
func (d *Dispatcher) shardIndex(equipmentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(equipmentID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StockMovement) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for m := range ch {
		metrics.MovementQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		start := time.Now()
		result := "ok"
		if err := d.recorder.Record(ctx, m); err != nil {
			result = "error"
			d.log.Error().Err(err).
				Str("equipment_id", m.EquipmentID).
				Str("kind", string(m.Kind)).
				Int("worker_id", id).
				Msg("movement processing failed")
		}
		metrics.MovementProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}
}
