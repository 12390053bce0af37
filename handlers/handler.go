// Package handlers is the HTTP boundary. Handlers bind requests, call the
// services and map service errors onto status codes; they hold no rules of
// their own.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/config"
	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/service"
)

type Handler struct {
	Catalog       *service.CatalogService
	Coupons       *service.CouponService
	Orders        *service.OrderService
	Feedback      *service.FeedbackService
	Notifications *service.NotificationService
	Identity      *service.IdentityService
	Auth          *middleware.Auth
	Config        config.Config
}

// respondError maps service errors onto HTTP statuses. Anything unclassified
// is logged and reported as a 500 without details.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "rating"})
	case errors.Is(err, service.ErrItemUnavailable), errors.Is(err, service.ErrCouponInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCouponAlreadyUsed), errors.Is(err, service.ErrOrderChanged):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindJSON decodes the body into obj and writes a 400 when that fails.
// Binding tag failures report the offending field.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := lowerFirst(fe.Field())
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("%s: failed %q validation", field, fe.Tag()),
			"field": field,
		})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// changedBy names the caller for the audit trail.
func changedBy(c *gin.Context) string {
	if id := middleware.GetUserID(c); id != "" {
		return string(middleware.GetRole(c)) + ":" + id
	}
	if role := middleware.GetRole(c); role != "" {
		return string(role)
	}
	return "anonymous"
}
