package inventory

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/usamayaqoob8177888763/retail-backoffice/model"
)

type IRepo interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
	CreateCategory(ctx context.Context, category model.Category) (int64, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateProduct(ctx context.Context, product model.Product) (int64, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CountOrderItemsForProduct(ctx context.Context, productID int64) (int, error)
	LockProductForUpdate(ctx context.Context, id int64) (model.Product, error)
	SetQuantity(ctx context.Context, id int64, quantity int) error
	CreateStockTransaction(ctx context.Context, st model.StockTransaction) error
	ListTransactions(ctx context.Context, productID int64) ([]model.StockTransaction, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)
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

var createCategoryQuery = "INSERT INTO categories (name) VALUES (:name)"

func (r repo) CreateCategory(ctx context.Context, category model.Category) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createCategoryQuery, category)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var getCategoryQuery = "SELECT * FROM categories WHERE id = ?"

func (r repo) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	var res model.Category
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, getCategoryQuery, id)
	return res, err
}

var listCategoriesQuery = "SELECT * FROM categories ORDER BY name"

func (r repo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var res []model.Category
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, listCategoriesQuery)
	return res, err
}

var createProductQuery = `INSERT INTO products (category_id, name, description, price, quantity, minimum_stock)
VALUES (:category_id, :name, :description, :price, :quantity, :minimum_stock)`

func (r repo) CreateProduct(ctx context.Context, product model.Product) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createProductQuery, product)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var updateProductQuery = `UPDATE products
SET category_id = :category_id, name = :name, description = :description,
    price = :price, minimum_stock = :minimum_stock
WHERE id = :id`

func (r repo) UpdateProduct(ctx context.Context, product model.Product) error {
	_, err := sqlx.NamedExecContext(ctx, r.conn(ctx), updateProductQuery, product)
	return err
}

var getProductQuery = "SELECT * FROM products WHERE id = ?"

func (r repo) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	var res model.Product
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, getProductQuery, id)
	return res, err
}

var listProductsQuery = "SELECT * FROM products ORDER BY name"

func (r repo) ListProducts(ctx context.Context) ([]model.Product, error) {
	var res []model.Product
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, listProductsQuery)
	return res, err
}

var deleteProductQuery = "DELETE FROM products WHERE id = ?"

func (r repo) DeleteProduct(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).ExecContext(ctx, deleteProductQuery, id)
	return err
}

var countOrderItemsQuery = "SELECT count(*) FROM order_items WHERE product_id = ?"

func (r repo) CountOrderItemsForProduct(ctx context.Context, productID int64) (int, error) {
	var res int
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, countOrderItemsQuery, productID)
	return res, err
}

var lockProductForUpdateQuery = "SELECT * FROM products WHERE id = ? FOR UPDATE"

func (r repo) LockProductForUpdate(ctx context.Context, id int64) (model.Product, error) {
	var res model.Product
	err := sqlx.GetContext(ctx, r.conn(ctx), &res, lockProductForUpdateQuery, id)
	return res, err
}

var setQuantityQuery = "UPDATE products SET quantity = ? WHERE id = ?"

func (r repo) SetQuantity(ctx context.Context, id int64, quantity int) error {
	_, err := r.conn(ctx).ExecContext(ctx, setQuantityQuery, quantity, id)
	return err
}

var createStockTransactionQuery = `INSERT INTO stock_transactions (product_id, transaction_type, quantity, notes)
VALUES (:product_id, :transaction_type, :quantity, :notes)`

func (r repo) CreateStockTransaction(ctx context.Context, st model.StockTransaction) error {
	_, err := sqlx.NamedExecContext(ctx, r.conn(ctx), createStockTransactionQuery, st)
	return err
}

var listTransactionsQuery = "SELECT * FROM stock_transactions WHERE product_id = ? ORDER BY created_at DESC"

func (r repo) ListTransactions(ctx context.Context, productID int64) ([]model.StockTransaction, error) {
	var res []model.StockTransaction
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, listTransactionsQuery, productID)
	return res, err
}

var listLowStockQuery = "SELECT * FROM products WHERE quantity <= minimum_stock ORDER BY name"

func (r repo) ListLowStock(ctx context.Context) ([]model.Product, error) {
	var res []model.Product
	err := sqlx.SelectContext(ctx, r.conn(ctx), &res, listLowStockQuery)
	return res, err
}
