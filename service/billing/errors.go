package billing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyOrder       = errors.New("order needs at least one line item with a positive quantity")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNegativeTotal    = errors.New("discount exceeds subtotal plus tax")
	ErrInvalidCharge    = errors.New("tax and discount must not be negative")
	ErrInvalidPayment   = errors.New("payment amount must be positive")
	ErrInvalidMethod    = errors.New("unknown payment method")
	ErrStockConflict    = errors.New("stock changed while creating order")
)

// Shortage names one product that could not cover the requested quantity.
type Shortage struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockError rejects an entire order submission and lists every
// insufficient product, not just the first one.
type StockError struct {
	Shortages []Shortage
}

func (e *StockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", s.Name, s.Requested, s.Available))
	}
	return "not enough stock for " + strings.Join(parts, "; ")
}
