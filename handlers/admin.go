package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/report"
	"restaurant-ordering-api/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminGetAllOrders returns every order with a per-status summary. Revenue
// counts orders whose payment completed.
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context(), service.OrderFilter{
		UserID: c.Query("userId"),
		Status: models.OrderStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	summary := service.Summarize(orders)
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary.ByStatus,
		"paid_count":    summary.Paid,
		"total_revenue": summary.Revenue,
		"count":         summary.Total,
		"orders":        orders,
	})
}

type ForceStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Reason string             `json:"reason" binding:"required"`
}

// AdminForceOrderStatus sets any status, bypassing the transition table.
func (h *Handler) AdminForceOrderStatus(c *gin.Context) {
	var req ForceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	before, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.Orders.ForceStatus(c.Request.Context(), before.ID, req.Status, req.Reason, changedBy(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by admin",
		"order_id":        order.ID,
		"previous_status": before.Status,
		"new_status":      order.Status,
		"order":           order,
	})
}

// AdminExportOrders downloads all orders as an xlsx workbook.
func (h *Handler) AdminExportOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context(), service.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := report.ExportOrders(&buf, orders); err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

type NotifyRequest struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

func (h *Handler) AdminNotify(c *gin.Context) {
	var req NotifyRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.Notifications.Notify(c.Request.Context(), req.OrderID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) AdminGetNotifications(c *gin.Context) {
	notifications, err := h.Notifications.List(c.Request.Context(), c.Query("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(notifications), "notifications": notifications})
}

func (h *Handler) AdminGetCoupons(c *gin.Context) {
	coupons, err := h.Coupons.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	used := 0
	for _, cp := range coupons {
		if cp.IsUsed {
			used++
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(coupons), "used": used, "coupons": coupons})
}

type CreateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) AdminCreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if !bindJSON(c, &req) {
		return
	}
	coupon, err := h.Coupons.Create(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Coupon created", "coupon": coupon})
}
