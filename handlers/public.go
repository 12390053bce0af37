package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/service"
	"restaurant-ordering-api/statemachine"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Restaurant Ordering API",
		"version": "1.0.0",
	})
}

// GetConfig returns the restaurant's public contact details.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.Config.Restaurant)
}

// GetStateMachineInfo returns both transition tables for documentation.
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": []models.OrderStatus{models.StatusCompleted},
		"pricing": gin.H{
			"addonSurcharge": h.Orders.Rules().AddonSurcharge,
			"taxRate":        h.Orders.Rules().TaxRate.String(),
		},
		"description": "Order lifecycle: fulfillment status and payment status evolve independently",
	})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.Catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// ListMenuItems returns orderable items, optionally for one category.
func (h *Handler) ListMenuItems(c *gin.Context) {
	items, err := h.Catalog.ListMenuItems(c.Request.Context(), service.MenuFilter{
		CategoryID:    c.Query("category"),
		OnlyAvailable: true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	item, err := h.Catalog.GetMenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CheckCoupon(c *gin.Context) {
	check, err := h.Coupons.Check(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

type FeedbackRequest struct {
	OrderID      string `json:"orderId"`
	CustomerName string `json:"customerName"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	fb, err := h.Feedback.Submit(c.Request.Context(), service.FeedbackInput{
		OrderID:      req.OrderID,
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

// ListFeedback returns feedback newest first; ?orderId= narrows it to one order.
func (h *Handler) ListFeedback(c *gin.Context) {
	feedback, err := h.Feedback.List(c.Request.Context(), c.Query("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
