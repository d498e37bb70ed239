package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/service"
)

// AuthHandler handles admin account and session HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// CreateAdmin handles creating an admin account
// POST /admin
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var request model.AdminCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	admin, err := h.authService.CreateAdmin(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Admin created successfully", "admin": admin})
}

// GetAdmin handles fetching one admin, session-gated
// GET /admin/{id}
func (h *AuthHandler) GetAdmin(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid admin ID"})
		return
	}

	admin, err := h.authService.GetAdmin(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, admin)
}

// UpdateAdmin handles rotating an admin's username and/or password,
// session-gated
// PUT /admin/{id}
func (h *AuthHandler) UpdateAdmin(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid admin ID"})
		return
	}

	var request model.AdminUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if _, err := h.authService.UpdateAdmin(c.Request.Context(), id, &request); err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin updated successfully"})
}

// DeleteAdmin handles hard-deleting an admin account, session-gated
// DELETE /admin/{id}
func (h *AuthHandler) DeleteAdmin(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid admin ID"})
		return
	}

	if err := h.authService.DeleteAdmin(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

// Login handles authenticating an admin and issuing a session token
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var request model.AdminLogin
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, token)
}

// Logout handles revoking the presented session token, session-gated
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	adminID, _ := c.Get("adminID")
	token, _ := c.Get("token")

	if err := h.authService.Logout(c.Request.Context(), token.(string), adminID.(int)); err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
