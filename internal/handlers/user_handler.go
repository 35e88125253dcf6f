package handlers

import (
	"net/http"

	"github.com/bitsim/lucky-draw-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserHandler handles user directory HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ResolveRequest is the username resolution payload
type ResolveRequest struct {
	Username string `json:"username" binding:"required"`
}

// Resolve handles POST /users/resolve: the bare username "login" that
// creates the account on first sight.
func (h *UserHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	user, err := h.userService.GetOrCreate(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /users/:username
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// PayPendingXP handles POST /users/:username/pay-xp
func (h *UserHandler) PayPendingXP(c *gin.Context) {
	result := h.userService.PayPendingXP(c.Request.Context(), c.Param("username"))
	c.JSON(http.StatusOK, result)
}
