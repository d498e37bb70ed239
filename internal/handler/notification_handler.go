package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/service"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// Create handles creating a notification
// POST /notifications
func (h *NotificationHandler) Create(c *gin.Context) {
	var request model.NotificationCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	notification, err := h.notificationService.Create(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Notification created", "id": notification.ID})
}

// List handles listing all notifications
// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notificationService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// Get handles fetching one notification
// GET /notifications/{id}
func (h *NotificationHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification ID"})
		return
	}

	notification, err := h.notificationService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, notification)
}

// Update handles a partial notification update
// PUT /notifications/{id}
func (h *NotificationHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification ID"})
		return
	}

	var request model.NotificationUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if _, err := h.notificationService.Update(c.Request.Context(), id, &request); err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification updated"})
}

// Delete handles removing a notification
// DELETE /notifications/{id}
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification ID"})
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// MarkRead forces a notification's status to read
// PATCH /update_notification_status/{id}
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification ID"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification status updated successfully"})
}
