package handlers

import (
	"errors"
	"net/http"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService        services.EventService
	winnerService       services.WinnerService
	registrationService services.RegistrationService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService services.EventService, winnerService services.WinnerService, registrationService services.RegistrationService) *EventHandler {
	return &EventHandler{
		eventService:        eventService,
		winnerService:       winnerService,
		registrationService: registrationService,
	}
}

// GetAllEvents handles GET /events
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.eventService.GetAllEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEventByID handles GET /events/:id
func (h *EventHandler) GetEventByID(c *gin.Context) {
	event, err := h.eventService.GetEventByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return
	}
	c.JSON(http.StatusOK, event)
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
}

// Register handles POST /events/:id/register
func (h *EventHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	result := h.registrationService.RegisterForEvent(c.Request.Context(), c.Param("id"), req.Username)
	c.JSON(http.StatusOK, result)
}

// Result handles POST /events/:id/result. The result page polls this
// endpoint; the first call past the result time settles the event.
func (h *EventHandler) Result(c *gin.Context) {
	event, err := h.winnerService.DetermineWinners(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to determine winners"})
		}
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent handles POST /admin/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var event models.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload: " + err.Error()})
		return
	}

	if err := h.eventService.CreateEvent(c.Request.Context(), &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// DeleteEvent handles DELETE /admin/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}
