package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usamayaqoob8177888763/retail-backoffice/service/billing"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	var input billing.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.billing.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.billing.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	order, err := h.billing.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	var input billing.RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.billing.RecordPayment(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetInvoice looks an order up by its invoice number; rendering the
// invoice itself is the caller's concern.
func (h *Handler) GetInvoice(c *gin.Context) {
	order, err := h.billing.GetOrderByInvoice(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
