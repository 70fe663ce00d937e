package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"backend/internal/middleware"
	"backend/internal/registry"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the admin console: user management, system stats and
// log retention cleanup.
type AdminHandler interface {
	GetUsers(c *gin.Context)
	DeleteUser(c *gin.Context)
	GetStats(c *gin.Context)
	DeleteOldLogs(c *gin.Context)
}

type adminHandler struct {
	authRepo        repository.AuthRepository
	feedbackRepo    repository.FeedbackRepository
	analysisService service.AnalysisService
	registry        *registry.Registry
	logger          *zap.Logger
}

func NewAdminHandler(authRepo repository.AuthRepository, feedbackRepo repository.FeedbackRepository, analysisService service.AnalysisService, reg *registry.Registry, logger *zap.Logger) AdminHandler {
	return &adminHandler{
		authRepo:        authRepo,
		feedbackRepo:    feedbackRepo,
		analysisService: analysisService,
		registry:        reg,
		logger:          logger,
	}
}

// GetUsers handles GET /admin/users.
func (h *adminHandler) GetUsers(c *gin.Context) {
	users, err := h.authRepo.GetAllUsers()
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// DeleteUser handles DELETE /admin/users/:id. Admins cannot delete
// themselves.
func (h *adminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if id == middleware.UserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete yourself"})
		return
	}

	if err := h.authRepo.DeleteUser(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to delete user", zap.Error(err), zap.Int64("user_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// GetStats handles GET /admin/stats.
func (h *adminHandler) GetStats(c *gin.Context) {
	stats, err := h.analysisService.Stats(nil)
	if err != nil {
		h.logger.Error("Failed to compute system stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	totalUsers, err := h.authRepo.CountUsers()
	if err != nil {
		h.logger.Error("Failed to count users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	misclassified, err := h.feedbackRepo.CountMisclassifiedSince(time.Time{})
	if err != nil {
		h.logger.Error("Failed to count misclassifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	modelVersion := ""
	if snap, err := h.registry.Active(); err == nil {
		modelVersion = snap.Version.Version
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":            totalUsers,
		"total_analyses":         stats.TotalAnalyses,
		"spam_detected":          stats.SpamDetected,
		"ham_detected":           stats.HamDetected,
		"accuracy_rate":          stats.AccuracyRate,
		"misclassified_feedback": misclassified,
		"active_model_version":   modelVersion,
	})
}

// DeleteOldLogs handles DELETE /admin/bulk/delete-old-logs?days_old=N.
func (h *adminHandler) DeleteOldLogs(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days_old", "30"))
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_old must be a positive integer"})
		return
	}

	deleted, err := h.analysisService.DeleteOldLogs(days)
	if err != nil {
		h.logger.Error("Failed to delete old logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete old logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Deleted %d logs older than %d days", deleted, days),
	})
}
