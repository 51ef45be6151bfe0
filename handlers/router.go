package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usamayaqoob8177888763/retail-backoffice/service/billing"
	"github.com/usamayaqoob8177888763/retail-backoffice/service/inventory"
)

type Handler struct {
	inventory inventory.IService
	billing   billing.IService
}

func NewRouter(inventorySvc inventory.IService, billingSvc billing.IService) *gin.Engine {
	h := &Handler{
		inventory: inventorySvc,
		billing:   billingSvc,
	}

	r := gin.Default()

	r.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/categories", h.CreateCategory)
	r.GET("/categories", h.ListCategories)

	r.POST("/products", h.CreateProduct)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
	r.POST("/products/:id/stock", h.AdjustStock)
	r.GET("/products/:id/transactions", h.ListTransactions)
	r.GET("/reports/low-stock", h.ListLowStock)

	r.POST("/customers", h.CreateCustomer)
	r.GET("/customers", h.ListCustomers)
	r.PUT("/customers/:id", h.UpdateCustomer)

	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/payments", h.RecordPayment)
	r.GET("/invoices/:number", h.GetInvoice)

	return r
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var stockErr *billing.StockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error(), "shortages": stockErr.Shortages})
		return
	}

	switch {
	case errors.Is(err, billing.ErrCustomerNotFound),
		errors.Is(err, billing.ErrProductNotFound),
		errors.Is(err, billing.ErrOrderNotFound),
		errors.Is(err, inventory.ErrCategoryNotFound),
		errors.Is(err, inventory.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, billing.ErrStockConflict),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrProductReferenced):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, billing.ErrEmptyOrder),
		errors.Is(err, billing.ErrNegativeTotal),
		errors.Is(err, billing.ErrInvalidCharge),
		errors.Is(err, billing.ErrInvalidPayment),
		errors.Is(err, billing.ErrInvalidMethod),
		errors.Is(err, inventory.ErrInvalidProduct),
		errors.Is(err, inventory.ErrZeroAdjustment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
