package handler

import (
	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateEquipmentInput(req createEquipmentRequest) (ports.CreateEquipmentInput, error) {
	date, err := parseDate(req.PurchaseDate)
	if err != nil {
		return ports.CreateEquipmentInput{}, err
	}
	return ports.CreateEquipmentInput{
		Code:         req.Code,
		Name:         req.Name,
		PurchaseDate: date,
		Stock:        req.Stock,
		Notes:        req.Notes,
	}, nil
}

func toUpdateEquipmentInput(req updateEquipmentRequest) (ports.UpdateEquipmentInput, error) {
	in := ports.UpdateEquipmentInput{
		Code:  req.Code,
		Name:  req.Name,
		Stock: req.Stock,
		Notes: req.Notes,
	}
	if req.PurchaseDate != nil {
		date, err := parseDate(*req.PurchaseDate)
		if err != nil {
			return ports.UpdateEquipmentInput{}, err
		}
		in.PurchaseDate = &date
	}
	return in, nil
}

func toCartLines(items []cartItemRequest) []ports.CartLine {
	lines := make([]ports.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, ports.CartLine{EquipmentID: it.EquipmentID, Quantity: it.Quantity})
	}
	return lines
}

// --- Service result → HTTP response ---

func toStockMoveResponse(r *ports.StockMoveResult) stockMoveResponse {
	return stockMoveResponse{
		Equipment:     r.Equipment,
		PreviousStock: r.PreviousStock,
		CurrentStock:  r.CurrentStock,
		Quantity:      r.Quantity,
		Direction:     string(r.Direction),
	}
}

func toDeletedEquipmentResponse(e *domain.Equipment) deletedResponse {
	return deletedResponse{Message: "equipment deleted", ID: e.ID, Code: e.Code, Name: e.Name}
}

func toCheckoutResponse(r *ports.CheckoutResult) checkoutResponse {
	resp := checkoutResponse{
		ID:        r.ID,
		Committed: r.Committed,
		Items:     make([]checkoutLineResponse, 0, len(r.Lines)),
		LowStock:  make([]lowStockResponse, 0, len(r.LowStock)),
	}
	for _, l := range r.Lines {
		resp.Items = append(resp.Items, checkoutLineResponse{
			EquipmentID: l.EquipmentID,
			Code:        l.Code,
			Name:        l.Name,
			Quantity:    l.Quantity,
			Status:      string(l.Status),
			Before:      l.Before,
			After:       l.After,
			Reason:      l.Reason,
		})
	}
	for _, n := range r.LowStock {
		resp.LowStock = append(resp.LowStock, lowStockResponse{
			EquipmentID: n.EquipmentID,
			Code:        n.Code,
			Name:        n.Name,
			Stock:       n.Stock,
		})
	}
	return resp
}
