package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/service"
)

type UpdateOrderRequest struct {
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
}

// UpdateOrder records a payment outcome and/or advances the fulfillment
// status. Both are applied together or not at all, so "paid, start preparing"
// can be sent in one request. Changing status needs an admin token.
func (h *Handler) UpdateOrder(c *gin.Context) {
	orderID := c.Param("id")
	var req UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status == "" && req.PaymentStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status or paymentStatus is required", "field": "status"})
		return
	}
	if req.Status != "" {
		switch middleware.GetRole(c) {
		case models.RoleAdmin:
		case "":
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin token required to change order status"})
			return
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Required role(s): admin"})
			return
		}
	}

	order, err := h.Orders.UpdateOrder(c.Request.Context(), orderID, service.OrderUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
	}, changedBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
