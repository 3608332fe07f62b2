package domain

import "time"

// MovementKind classifies what changed an item's stock.
type MovementKind string

const (
	MovementAdjust       MovementKind = "adjust"
	MovementIn           MovementKind = "in"
	MovementOut          MovementKind = "out"
	MovementCheckout     MovementKind = "checkout"
	MovementCompensation MovementKind = "compensation"
)

// StockMovement is the audit record of a single stock change.
type StockMovement struct {
	EquipmentID string       `json:"equipmentId"`
	Code        string       `json:"code"`
	Kind        MovementKind `json:"kind"`
	Quantity    int          `json:"quantity"`
	Before      int          `json:"before"`
	After       int          `json:"after"`
	ActorID     string       `json:"actorId,omitempty"`
	Reference   string       `json:"reference,omitempty"` // checkout id
	Timestamp   time.Time    `json:"timestamp"`
}
