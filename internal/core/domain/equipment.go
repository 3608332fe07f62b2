package domain

import (
	"strings"
	"time"
)

// LowStockThreshold is the unit count below which an item counts as low on
// stock in listings and statistics.
const LowStockThreshold = 10

// StockDirection is the sense of a delta stock movement.
type StockDirection string

const (
	DirectionIn  StockDirection = "in"
	DirectionOut StockDirection = "out"
)

func (d StockDirection) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Equipment is a catalog record. Code is unique and stored upper-cased.
type Equipment struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	PurchaseDate time.Time `json:"purchaseDate"`
	Stock        int       `json:"stock"`
	Notes        string    `json:"notes"`
	LastUpdated  time.Time `json:"lastUpdated"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsLowStock reports whether the item falls under the statistics threshold.
func (e Equipment) IsLowStock() bool {
	return e.Stock < LowStockThreshold
}

// NeedsRestockNotice reports whether a stock level should raise a user-visible
// low-stock notice: still available but at or under the threshold.
func NeedsRestockNotice(stock int) bool {
	return stock > 0 && stock <= LowStockThreshold
}

// NormalizeCode trims and upper-cases an equipment code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// InventoryStats summarizes the catalog.
type InventoryStats struct {
	TotalItems    int64 `json:"totalEquipos"`
	LowStockItems int64 `json:"equiposStockBajo"`
	TotalStock    int64 `json:"stockTotal"`
	OutOfStock    int64 `json:"equiposSinStock"`
}

// StatsFromStocks computes InventoryStats over a set of stock levels. The
// Mongo repository computes the same figures with an aggregation pipeline.
func StatsFromStocks(stocks []int) InventoryStats {
	var s InventoryStats
	for _, n := range stocks {
		s.TotalItems++
		s.TotalStock += int64(n)
		if n < LowStockThreshold {
			s.LowStockItems++
		}
		if n == 0 {
			s.OutOfStock++
		}
	}
	return s
}
