package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedbackHandler interface {
	Submit(c *gin.Context)
	List(c *gin.Context)
	Delete(c *gin.Context)
}

type feedbackHandler struct {
	feedbackService service.FeedbackService
	logger          *zap.Logger
}

func NewFeedbackHandler(feedbackService service.FeedbackService, logger *zap.Logger) FeedbackHandler {
	return &feedbackHandler{feedbackService: feedbackService, logger: logger}
}

type FeedbackRequest struct {
	SpamLogID       int64   `json:"spam_log_id" binding:"required"`
	CorrectedResult string  `json:"corrected_result" binding:"required"`
	Comment         *string `json:"comment"`
}

// Submit handles POST /feedback.
func (h *feedbackHandler) Submit(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb, err := h.feedbackService.Submit(middleware.UserID(c), middleware.IsAdmin(c), req.SpamLogID, req.CorrectedResult, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLabel):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrLogNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Spam log not found"})
		case errors.Is(err, service.ErrDuplicateFeedback):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to submit feedback", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit feedback"})
		}
		return
	}

	c.JSON(http.StatusCreated, fb)
}

// List handles GET /admin/feedback.
func (h *feedbackHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	feedbacks, err := h.feedbackService.List(limit)
	if err != nil {
		h.logger.Error("Failed to list feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedbacks": feedbacks,
		"count":     len(feedbacks),
	})
}

// Delete handles DELETE /feedback/:id (admin purge).
func (h *feedbackHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback ID"})
		return
	}

	if err := h.feedbackService.Delete(id); err != nil {
		if errors.Is(err, service.ErrFeedbackNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
			return
		}
		h.logger.Error("Failed to delete feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted successfully"})
}
