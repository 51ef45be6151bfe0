package model

import "database/sql"

type Customer struct {
	ID        int64          `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Phone     sql.NullString `db:"phone" json:"-"`
	Email     sql.NullString `db:"email" json:"-"`
	Address   sql.NullString `db:"address" json:"-"`
	CreatedAt sql.NullTime   `db:"created_at" json:"created_at"`
}
