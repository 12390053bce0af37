package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/report"
	"restaurant-ordering-api/service"
)

// PlaceOrder creates an order from a cart. Totals sent by the client are
// ignored; the order is priced from the catalog. A bearer token, when
// present, ties the order to that user.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}
	if middleware.GetRole(c) == models.RoleCustomer {
		req.UserID = middleware.GetUserID(c)
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders returns orders newest first, filtered by ?userId= and ?status=.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context(), service.OrderFilter{
		UserID: c.Query("userId"),
		Status: models.OrderStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) GetOrderHistory(c *gin.Context) {
	history, err := h.Orders.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetReceipt renders the order as plain text.
func (h *Handler) GetReceipt(c *gin.Context) {
	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteReceipt(&buf, h.Config.Restaurant.Name, order, h.Orders.Rules()); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
