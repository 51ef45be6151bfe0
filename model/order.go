package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type Order struct {
	ID            int64           `db:"id" json:"id"`
	CustomerID    int64           `db:"customer_id" json:"customer_id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	Tax           decimal.Decimal `db:"tax" json:"tax"`
	Discount      decimal.Decimal `db:"discount" json:"discount"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	Total         decimal.Decimal `db:"total" json:"total"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	Notes         sql.NullString  `db:"notes" json:"-"`
	CreatedAt     sql.NullTime    `db:"created_at" json:"created_at"`
}

// OrderItem captures the unit price at time of sale; later price edits on
// the product do not touch committed orders.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity  int             `db:"quantity" json:"quantity"`
	LineTotal decimal.Decimal `db:"line_total" json:"line_total"`
}

// OrderDetail is the read view of an order: the order row plus its items,
// payments, and the derived paid/balance amounts.
type OrderDetail struct {
	Order
	Items      []OrderItem     `json:"items"`
	Payments   []Payment       `json:"payments"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Balance    decimal.Decimal `json:"balance"`
}
