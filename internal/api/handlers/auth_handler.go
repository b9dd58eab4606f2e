package handlers

import (
	"net/http"
	"time"

	"github.com/SpladlesRUs/calendar-hub/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles admin login and logout.
type AuthHandler struct {
	creds    auth.Credentials
	sessions auth.SessionStore
	expiry   time.Duration
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(creds auth.Credentials, sessions auth.SessionStore, expiry time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{creds: creds, sessions: sessions, expiry: expiry, logger: logger}
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Login godoc
// @Summary Admin login
// @Description Exchange admin credentials for an opaque session token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Admin username"
// @Param password formData string true "Admin password"
// @Success 200 {object} map[string]string "Session token"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !h.creds.Verify(req.Username, req.Password) {
		h.logger.Warn("admin login rejected", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), c.ClientIP(), h.expiry)
	if err != nil {
		h.logger.Error("session create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.logger.Info("admin login", zap.String("ip", c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"token": session.Token})
}

// Logout godoc
// @Summary Admin logout
// @Description Invalidate the presented session token
// @Tags auth
// @Security AdminToken
// @Success 204 "Session invalidated"
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetHeader("X-Admin-Token")
	if token == "" {
		token = c.Query("token")
	}
	if token != "" {
		h.sessions.Invalidate(c.Request.Context(), token)
	}
	c.Status(http.StatusNoContent)
}
