package alert

import "time"

// LowStockEvent is published when a sale or stock adjustment leaves a
// product at or below its minimum-stock threshold.
type LowStockEvent struct {
	ProductID    int64     `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	MinimumStock int       `json:"minimum_stock"`
	OccurredAt   time.Time `json:"occurred_at"`
}
