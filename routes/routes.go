package routes

import (
	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/handlers"
	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, auth *middleware.Auth) {
	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.GET("/config", h.GetConfig)
		public.GET("/state-machine", h.GetStateMachineInfo)

		// Identity (mock OTP)
		public.POST("/auth/send-otp", h.SendOTP)
		public.POST("/auth/verify-otp", h.VerifyOTP)
		public.POST("/admin/verify", h.VerifyAdmin)
		public.POST("/users", h.CreateUser)
		public.GET("/users/:id", h.GetUser)

		// Catalog
		public.GET("/categories", h.ListCategories)
		public.GET("/categories/:id", h.GetCategory)
		public.GET("/menu-items", h.ListMenuItems)
		public.GET("/menu-items/:id", h.GetMenuItem)

		public.GET("/coupons/check/:code", h.CheckCoupon)

		public.POST("/feedback", h.SubmitFeedback)
		public.GET("/feedback", h.ListFeedback)

		public.GET("/orders", h.ListOrders)
		public.GET("/orders/:id", h.GetOrder)
		public.GET("/orders/:id/history", h.GetOrderHistory)
		public.GET("/orders/:id/receipt", h.GetReceipt)
	}

	// ── Optionally authenticated routes ────────────────────────────
	orders := r.Group("/api/orders")
	orders.Use(auth.OptionalAuth())
	{
		orders.POST("", h.PlaceOrder)
		orders.PATCH("/:id", h.UpdateOrder)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(auth.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", h.AdminGetAllOrders)
		admin.GET("/orders/export", h.AdminExportOrders)
		admin.PUT("/orders/:id/status", h.AdminForceOrderStatus)

		admin.POST("/notify", h.AdminNotify)
		admin.GET("/notifications", h.AdminGetNotifications)

		admin.GET("/coupons", h.AdminGetCoupons)
		admin.POST("/coupons", h.AdminCreateCoupon)

		admin.POST("/categories", h.AddCategory)
		admin.PUT("/categories/:id", h.UpdateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)

		admin.GET("/menu-items", h.AdminListMenuItems)
		admin.POST("/menu-items", h.AddMenuItem)
		admin.PUT("/menu-items/:id", h.UpdateMenuItem)
		admin.DELETE("/menu-items/:id", h.DeleteMenuItem)
	}
}
