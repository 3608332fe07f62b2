// Package metrics defines the custom Prometheus metrics of the inventory API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register with the default registry on package init through promauto;
// HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory"

// ── Stock metrics ─────────────────────────────────────────────────────────────

// StockMovementsTotal counts recorded stock movements.
// Label:
//   - kind: adjust, in, out, checkout, compensation
var StockMovementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_movements_total",
		Help:      "Total number of stock movements recorded, by kind.",
	},
	[]string{"kind"},
)

// StockMovementErrorsTotal counts movements whose audit write failed.
var StockMovementErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_movement_errors_total",
		Help:      "Total number of stock movements that could not be persisted.",
	},
)

// LowStockAlertsTotal counts movements that left an item at or under the
// low-stock threshold with units still available.
var LowStockAlertsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "low_stock_alerts_total",
		Help:      "Total number of low-stock alerts raised.",
	},
)

// MovementQueueDepth tracks pending movements in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var MovementQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "movement_queue_depth",
		Help:      "Current number of movements pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MovementsDroppedTotal counts movements that never reached a worker.
// Label:
//   - reason: queue_full, shutdown
var MovementsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "movements_dropped_total",
		Help:      "Total number of stock movements dropped before recording, by reason.",
	},
	[]string{"reason"},
)

// MovementProcessingDuration measures one movement from dequeue to persistence.
var MovementProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "movement_processing_duration_seconds",
		Help:      "Duration of movement processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutsTotal counts checkout attempts.
// Label:
//   - result: committed, rejected, duplicate, error
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkouts, by result.",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: success, failure
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
