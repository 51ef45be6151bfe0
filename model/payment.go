package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodBank   PaymentMethod = "bank"
	MethodOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBank, MethodOnline:
		return true
	}
	return false
}

type Payment struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Method    PaymentMethod   `db:"method" json:"method"`
	Reference sql.NullString  `db:"reference" json:"-"`
	Notes     sql.NullString  `db:"notes" json:"-"`
	CreatedAt sql.NullTime    `db:"created_at" json:"created_at"`
}
