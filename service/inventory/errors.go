package inventory

import "errors"

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductReferenced = errors.New("product is referenced by order items")
	ErrInsufficientStock = errors.New("not enough stock on hand")
	ErrInvalidProduct    = errors.New("product price must not be negative")
	ErrZeroAdjustment    = errors.New("stock adjustment must not be zero")
)
