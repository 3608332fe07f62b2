package handler

import (
	"strings"
	"time"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// dateLayouts are the purchaseDate formats accepted on input.
var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Invalid("purchaseDate must be YYYY-MM-DD or RFC 3339")
}

type createEquipmentRequest struct {
	Code         string `json:"code"         validate:"required"`
	Name         string `json:"name"         validate:"required"`
	PurchaseDate string `json:"purchaseDate" validate:"required"`
	Stock        *int   `json:"stock"        validate:"omitempty,gte=0"`
	Notes        string `json:"notes"`
}

type updateEquipmentRequest struct {
	Code         *string `json:"code"`
	Name         *string `json:"name"`
	PurchaseDate *string `json:"purchaseDate"`
	Stock        *int    `json:"stock" validate:"omitempty,gte=0"`
	Notes        *string `json:"notes"`
}

type adjustStockRequest struct {
	Stock *int `json:"stock" validate:"required"`
}

type moveStockRequest struct {
	Quantity  int    `json:"quantity"  validate:"required,gt=0"`
	Direction string `json:"direction" validate:"required,oneof=in out"`
}

type cartItemRequest struct {
	EquipmentID string `json:"equipmentId" validate:"required"`
	Quantity    int    `json:"quantity"    validate:"required,gt=0"`
}

type checkoutRequest struct {
	Items []cartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type stockMoveResponse struct {
	Equipment     *domain.Equipment `json:"equipment"`
	PreviousStock int               `json:"previousStock"`
	CurrentStock  int               `json:"currentStock"`
	Quantity      int               `json:"quantity"`
	Direction     string            `json:"direction"`
}

type deletedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Code    string `json:"code,omitempty"`
	Name    string `json:"name,omitempty"`
}

type checkoutLineResponse struct {
	EquipmentID string `json:"equipmentId"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name,omitempty"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
	Before      int    `json:"before"`
	After       int    `json:"after"`
	Reason      string `json:"reason,omitempty"`
}

type lowStockResponse struct {
	EquipmentID string `json:"equipmentId"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Stock       int    `json:"stock"`
}

type checkoutResponse struct {
	ID        string                 `json:"id"`
	Committed bool                   `json:"committed"`
	Items     []checkoutLineResponse `json:"items"`
	LowStock  []lowStockResponse     `json:"lowStock"`
}
