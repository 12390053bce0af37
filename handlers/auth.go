package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/service"
)

type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type AdminVerifyRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

// SendOTP issues a one-time code. Nothing is actually sent; the code is
// echoed back only when the deployment is configured to expose it.
func (h *Handler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	code, err := h.Identity.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"success": true, "message": "OTP sent successfully"}
	if h.Config.Auth.ExposeOTP {
		resp["otp"] = code
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyOTP checks the code and logs the user in, registering them on first
// use.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.Identity.VerifyCode(c.Request.Context(), req.Phone, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.Auth.GenerateToken(user.ID, user.Role())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "token": token})
}

// VerifyAdmin exchanges the admin passcode for an admin token.
func (h *Handler) VerifyAdmin(c *gin.Context) {
	var req AdminVerifyRequest
	if !bindJSON(c, &req) {
		return
	}
	want := []byte(h.Config.Auth.AdminPasscode)
	if subtle.ConstantTimeCompare([]byte(req.Passcode), want) != 1 {
		log.WithField("client_ip", c.ClientIP()).Warn("admin passcode rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "invalid passcode"})
		return
	}
	token, err := h.Auth.GenerateToken("", models.RoleAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "token": token})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req service.UserInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.Identity.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.Identity.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
