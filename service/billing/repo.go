package billing

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/usamayaqoob8177888763/retail-backoffice/model"
)

type IRepo interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error

	CreateCustomer(ctx context.Context, customer model.Customer) (int64, error)
	UpdateCustomer(ctx context.Context, customer model.Customer) error
	GetCustomer(ctx context.Context, id int64) (model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)

	CreateOrder(ctx context.Context, order model.Order) (int64, error)
	GetOrder(ctx context.Context, id int64) (model.Order, error)
	GetOrderByInvoice(ctx context.Context, invoiceNumber string) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	LockOrderForUpdate(ctx context.Context, id int64) (model.Order, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error

	CreateOrderItem(ctx context.Context, item model.OrderItem) (int64, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	CreatePayment(ctx context.Context, payment model.Payment) (int64, error)
	ListPayments(ctx context.Context, orderID int64) ([]model.Payment, error)
	SumPayments(ctx context.Context, orderID int64) (decimal.Decimal, error)

	LockProductForUpdate(ctx context.Context, productID int64) (model.Product, error)
	DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error)
	CreateStockTransaction(ctx context.Context, st model.StockTransaction) error

	NextInvoiceSeq(ctx context.Context, day string) (int64, error)

	CreateOutbox(ctx context.Context, outbox model.Outbox) error
	GetPendingOutbox(ctx context.Context, limit int) ([]model.Outbox, error)
	MarkDoneOutboxes(ctx context.Context, ids []int64) error
}

type repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) IRepo {
	return &repo{
		db: db,
	}
}

type txKey struct{}

// Transact runs fn inside a transaction; the tx handle rides in the context
// so every repo call made from fn executes on it.
func (r repo) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

func (r repo) conn(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

var createCustomerQuery = `INSERT INTO customers (name, phone, email, address)
VALUES (:name, :phone, :email, :address)`

func (r repo) CreateCustomer(ctx context.Context, customer model.Customer) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createCustomerQuery, customer)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var updateCustomerQuery = `UPDATE customers
SET name = :name, phone = :phone, email = :email, address = :address
WHERE id = :id`

func (r repo) UpdateCustomer(ctx context.Context, customer model.Customer) error {
	_, err := sqlx.NamedExecContext(ctx, r.conn(ctx), updateCustomerQuery, customer)
	return err
}

var getCustomerQuery = "SELECT * FROM customers WHERE id = ?"

func (r repo) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	var res model.Customer
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, getCustomerQuery, id)
	return res, err
}

var listCustomersQuery = "SELECT * FROM customers ORDER BY created_at DESC"

func (r repo) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var res []model.Customer
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, listCustomersQuery)
	return res, err
}

var createOrderQuery = `INSERT INTO orders (customer_id, invoice_number, tax, discount, subtotal, total, payment_status, notes)
VALUES (:customer_id, :invoice_number, :tax, :discount, :subtotal, :total, :payment_status, :notes)`

func (r repo) CreateOrder(ctx context.Context, order model.Order) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createOrderQuery, order)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var getOrderQuery = "SELECT * FROM orders WHERE id = ?"

func (r repo) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	var res model.Order
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, getOrderQuery, id)
	return res, err
}

var getOrderByInvoiceQuery = "SELECT * FROM orders WHERE invoice_number = ?"

func (r repo) GetOrderByInvoice(ctx context.Context, invoiceNumber string) (model.Order, error) {
	var res model.Order
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, getOrderByInvoiceQuery, invoiceNumber)
	return res, err
}

var listOrdersQuery = "SELECT * FROM orders ORDER BY created_at DESC"

func (r repo) ListOrders(ctx context.Context) ([]model.Order, error) {
	var res []model.Order
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, listOrdersQuery)
	return res, err
}

var lockOrderForUpdateQuery = "SELECT * FROM orders WHERE id = ? FOR UPDATE"

func (r repo) LockOrderForUpdate(ctx context.Context, id int64) (model.Order, error) {
	var res model.Order
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, lockOrderForUpdateQuery, id)
	return res, err
}

var updatePaymentStatusQuery = "UPDATE orders SET payment_status = ? WHERE id = ?"

func (r repo) UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	_, err := r.conn(ctx).ExecContext(ctx, updatePaymentStatusQuery, status, id)
	return err
}

var createOrderItemQuery = `INSERT INTO order_items (order_id, product_id, unit_price, quantity, line_total)
VALUES (:order_id, :product_id, :unit_price, :quantity, :line_total)`

func (r repo) CreateOrderItem(ctx context.Context, item model.OrderItem) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createOrderItemQuery, item)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var listOrderItemsQuery = "SELECT * FROM order_items WHERE order_id = ? ORDER BY id"

func (r repo) ListOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var res []model.OrderItem
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, listOrderItemsQuery, orderID)
	return res, err
}

var createPaymentQuery = `INSERT INTO payments (order_id, amount, method, reference, notes)
VALUES (:order_id, :amount, :method, :reference, :notes)`

func (r repo) CreatePayment(ctx context.Context, payment model.Payment) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createPaymentQuery, payment)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var listPaymentsQuery = "SELECT * FROM payments WHERE order_id = ? ORDER BY created_at DESC, id DESC"

func (r repo) ListPayments(ctx context.Context, orderID int64) ([]model.Payment, error) {
	var res []model.Payment
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, listPaymentsQuery, orderID)
	return res, err
}

var sumPaymentsQuery = "SELECT COALESCE(SUM(amount), 0) FROM payments WHERE order_id = ?"

func (r repo) SumPayments(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var res decimal.Decimal
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, sumPaymentsQuery, orderID)
	return res, err
}

var lockProductForUpdateQuery = "SELECT * FROM products WHERE id = ? FOR UPDATE"

func (r repo) LockProductForUpdate(ctx context.Context, productID int64) (model.Product, error) {
	var res model.Product
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, lockProductForUpdateQuery, productID)
	return res, err
}

// DecrementStock is a compare-and-swap: the WHERE clause refuses to take
// the quantity below zero, so a raced check surfaces as zero rows affected
// instead of negative stock.
var decrementStockQuery = "UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?"

func (r repo) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	res, err := r.conn(ctx).ExecContext(ctx, decrementStockQuery, quantity, productID, quantity)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

var createStockTransactionQuery = `INSERT INTO stock_transactions (product_id, transaction_type, quantity, notes)
VALUES (:product_id, :transaction_type, :quantity, :notes)`

func (r repo) CreateStockTransaction(ctx context.Context, st model.StockTransaction) error {
	_, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createStockTransactionQuery, st)
	return err
}

var (
	ensureInvoiceSeqQuery = "INSERT INTO invoice_sequences (day, seq) VALUES (?, 0) ON DUPLICATE KEY UPDATE day = day"
	lockInvoiceSeqQuery   = "SELECT seq FROM invoice_sequences WHERE day = ? FOR UPDATE"
	bumpInvoiceSeqQuery   = "UPDATE invoice_sequences SET seq = ? WHERE day = ?"
)

// NextInvoiceSeq hands out the next per-day counter value under a row lock.
func (r repo) NextInvoiceSeq(ctx context.Context, day string) (int64, error) {
	_, err := r.conn(ctx).ExecContext(ctx, ensureInvoiceSeqQuery, day)
	if err != nil {
		return 0, err
	}

	var seq int64
	err = sqlx.GetContext(ctx, r.conn(ctx), &seq, lockInvoiceSeqQuery, day)
	if err != nil {
		return 0, err
	}

	seq++
	_, err = r.conn(ctx).ExecContext(ctx, bumpInvoiceSeqQuery, seq, day)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

var createOutboxQuery = "INSERT INTO outboxes (content) VALUES (:content)"

func (r repo) CreateOutbox(ctx context.Context, outbox model.Outbox) error {
	_, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createOutboxQuery, outbox)
	return err
}

var getPendingOutboxQuery = "SELECT * FROM outboxes WHERE status = ? LIMIT ?"

func (r repo) GetPendingOutbox(ctx context.Context, limit int) ([]model.Outbox, error) {
	var res []model.Outbox
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, getPendingOutboxQuery, model.OutboxPending, limit)
	return res, err
}

var markDoneOutboxesQuery = "UPDATE outboxes SET status = ? WHERE id IN (?)"

func (r repo) MarkDoneOutboxes(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(markDoneOutboxesQuery, model.OutboxCompleted, ids)
	if err != nil {
		return err
	}

	_, err = r.conn(ctx).ExecContext(ctx, query, args...)
	return err
}
