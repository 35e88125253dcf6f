package handlers

import (
	"errors"
	"net/http"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// ActivityHandler handles quiz/poll HTTP requests
type ActivityHandler struct {
	activityService services.ActivityService
	quizService     services.QuizService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService services.ActivityService, quizService services.QuizService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		quizService:     quizService,
	}
}

// GetAllActivities handles GET /activities. Submissions are stripped from
// the player listing.
func (h *ActivityHandler) GetAllActivities(c *gin.Context) {
	activities, err := h.activityService.GetAllActivities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activities"})
		return
	}
	for _, a := range activities {
		a.Submissions = nil
	}
	c.JSON(http.StatusOK, activities)
}

// GetActivityByID handles GET /activities/:id
func (h *ActivityHandler) GetActivityByID(c *gin.Context) {
	activity, err := h.activityService.GetActivityByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		}
		return
	}
	activity.Submissions = nil
	c.JSON(http.StatusOK, activity)
}

// SubmitRequest is the answer submission payload
type SubmitRequest struct {
	Username string   `json:"username" binding:"required"`
	Answers  []string `json:"answers" binding:"required"`
}

// Submit handles POST /activities/:id/submit
func (h *ActivityHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and answers are required"})
		return
	}

	result := h.quizService.SubmitAnswer(c.Request.Context(), c.Param("id"), req.Username, req.Answers)
	c.JSON(http.StatusOK, result)
}

// CreateActivity handles POST /admin/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var activity models.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity payload: " + err.Error()})
		return
	}

	if err := h.activityService.CreateActivity(c.Request.Context(), &activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// DeleteActivity handles DELETE /admin/activities/:id
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	if err := h.activityService.DeleteActivity(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted"})
}

// GetResults handles GET /admin/activities/:id/results, returning the
// activity with its full submission log.
func (h *ActivityHandler) GetResults(c *gin.Context) {
	activity, err := h.activityService.GetActivityByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		}
		return
	}
	c.JSON(http.StatusOK, activity)
}
