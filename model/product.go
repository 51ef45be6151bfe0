package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int64        `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	CreatedAt sql.NullTime `db:"created_at" json:"created_at"`
}

type Product struct {
	ID           int64           `db:"id" json:"id"`
	CategoryID   int64           `db:"category_id" json:"category_id"`
	Name         string          `db:"name" json:"name"`
	Description  sql.NullString  `db:"description" json:"-"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Quantity     int             `db:"quantity" json:"quantity"`
	MinimumStock int             `db:"minimum_stock" json:"minimum_stock"`
	CreatedAt    sql.NullTime    `db:"created_at" json:"created_at"`
	UpdatedAt    sql.NullTime    `db:"updated_at" json:"updated_at"`
}

type TransactionType string

const (
	StockIn  TransactionType = "IN"
	StockOut TransactionType = "OUT"
)

// StockTransaction is one row of the append-only stock movement log.
type StockTransaction struct {
	ID        int64           `db:"id" json:"id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Type      TransactionType `db:"transaction_type" json:"transaction_type"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Notes     sql.NullString  `db:"notes" json:"-"`
	CreatedAt sql.NullTime    `db:"created_at" json:"created_at"`
}
