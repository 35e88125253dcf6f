package handlers

import (
	"net/http"

	"github.com/bitsim/lucky-draw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles push-token registry HTTP requests
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// SaveTokenRequest is the device token payload
type SaveTokenRequest struct {
	Username string `json:"username" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

// SaveToken handles POST /notifications/token
func (h *NotificationHandler) SaveToken(c *gin.Context) {
	var req SaveTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and token are required"})
		return
	}

	if err := h.notificationService.SaveToken(c.Request.Context(), req.Username, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token saved"})
}
