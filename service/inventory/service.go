package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/usamayaqoob8177888763/retail-backoffice/model"
)

type IService interface {
	CreateCategory(ctx context.Context, name string) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateProduct(ctx context.Context, input ProductInput) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput) (model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, productID int64, delta int, notes string) (model.Product, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)
	ListTransactions(ctx context.Context, productID int64) ([]model.StockTransaction, error)
}

type ProductInput struct {
	CategoryID   int64           `json:"category_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	MinimumStock int             `json:"minimum_stock"`
}

type service struct {
	repo IRepo
}

func NewService(repo IRepo) IService {
	return &service{
		repo: repo,
	}
}

func (s service) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	id, err := s.repo.CreateCategory(ctx, model.Category{Name: name})
	if err != nil {
		return model.Category{}, err
	}
	return s.repo.GetCategory(ctx, id)
}

func (s service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s service) CreateProduct(ctx context.Context, input ProductInput) (model.Product, error) {
	if input.Price.IsNegative() {
		return model.Product{}, ErrInvalidProduct
	}

	var res model.Product
	err := s.repo.Transact(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetCategory(ctx, input.CategoryID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		if err != nil {
			return err
		}

		id, err := s.repo.CreateProduct(ctx, model.Product{
			CategoryID:   input.CategoryID,
			Name:         input.Name,
			Description:  nullString(input.Description),
			Price:        input.Price,
			Quantity:     input.Quantity,
			MinimumStock: input.MinimumStock,
		})
		if err != nil {
			return err
		}

		if input.Quantity > 0 {
			err = s.repo.CreateStockTransaction(ctx, model.StockTransaction{
				ProductID: id,
				Type:      model.StockIn,
				Quantity:  input.Quantity,
				Notes:     nullString("initial stock"),
			})
			if err != nil {
				return err
			}
		}

		res, err = s.repo.GetProduct(ctx, id)
		return err
	})
	return res, err
}

func (s service) UpdateProduct(ctx context.Context, id int64, input ProductInput) (model.Product, error) {
	if input.Price.IsNegative() {
		return model.Product{}, ErrInvalidProduct
	}

	var res model.Product
	err := s.repo.Transact(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetProduct(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		_, err = s.repo.GetCategory(ctx, input.CategoryID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		if err != nil {
			return err
		}

		current.CategoryID = input.CategoryID
		current.Name = input.Name
		current.Description = nullString(input.Description)
		current.Price = input.Price
		current.MinimumStock = input.MinimumStock

		// quantity is only mutated through AdjustStock and order creation
		err = s.repo.UpdateProduct(ctx, current)
		if err != nil {
			return err
		}

		res, err = s.repo.GetProduct(ctx, id)
		return err
	})
	return res, err
}

func (s service) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	res, err := s.repo.GetProduct(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrProductNotFound
	}
	return res, err
}

func (s service) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListProducts(ctx)
}

// DeleteProduct refuses to remove a product that appears on any order; the
// order history keeps pointing at real rows.
func (s service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Transact(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetProduct(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		referenced, err := s.repo.CountOrderItemsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if referenced > 0 {
			return ErrProductReferenced
		}

		return s.repo.DeleteProduct(ctx, id)
	})
}

func (s service) AdjustStock(ctx context.Context, productID int64, delta int, notes string) (model.Product, error) {
	if delta == 0 {
		return model.Product{}, ErrZeroAdjustment
	}

	var res model.Product
	err := s.repo.Transact(ctx, func(ctx context.Context) error {
		product, err := s.repo.LockProductForUpdate(ctx, productID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		left := product.Quantity + delta
		if left < 0 {
			return ErrInsufficientStock
		}

		err = s.repo.SetQuantity(ctx, productID, left)
		if err != nil {
			return err
		}

		txType := model.StockIn
		qty := delta
		if delta < 0 {
			txType = model.StockOut
			qty = -delta
		}
		err = s.repo.CreateStockTransaction(ctx, model.StockTransaction{
			ProductID: productID,
			Type:      txType,
			Quantity:  qty,
			Notes:     nullString(notes),
		})
		if err != nil {
			return err
		}

		res, err = s.repo.GetProduct(ctx, productID)
		return err
	})
	return res, err
}

func (s service) ListLowStock(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListLowStock(ctx)
}

func (s service) ListTransactions(ctx context.Context, productID int64) ([]model.StockTransaction, error) {
	_, err := s.repo.GetProduct(ctx, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, productID)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
