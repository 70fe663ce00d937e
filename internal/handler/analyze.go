package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/registry"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeHandler serves the classification read path and the analysis log.
type AnalyzeHandler interface {
	Analyze(c *gin.Context)
	Logs(c *gin.Context)
	LogStats(c *gin.Context)
}

type analyzeHandler struct {
	analysisService service.AnalysisService
	logger          *zap.Logger
}

func NewAnalyzeHandler(analysisService service.AnalysisService, logger *zap.Logger) AnalyzeHandler {
	return &analyzeHandler{analysisService: analysisService, logger: logger}
}

type AnalyzeRequest struct {
	EmailText string `json:"email_text" binding:"required"`
}

// Analyze handles POST /analyze.
func (h *analyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analysisService.Analyze(middleware.UserID(c), req.EmailText)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, registry.ErrNoModelAvailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No trained model available yet"})
		default:
			h.logger.Error("Analysis failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze email"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logs handles GET /logs with limit/offset pagination.
func (h *analyzeHandler) Logs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := models.LogFilter{
		Result: c.Query("result_filter"),
		Limit:  limit,
		Offset: offset,
	}
	// Non-admins only see their own history.
	if !middleware.IsAdmin(c) {
		userID := middleware.UserID(c)
		filter.UserID = &userID
	}

	logs, err := h.analysisService.Logs(filter)
	if err != nil {
		h.logger.Error("Failed to list spam logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"count":  len(logs),
		"limit":  limit,
		"offset": offset,
	})
}

// LogStats handles GET /logs/stats.
func (h *analyzeHandler) LogStats(c *gin.Context) {
	var userID *int64
	if !middleware.IsAdmin(c) {
		id := middleware.UserID(c)
		userID = &id
	}

	stats, err := h.analysisService.Stats(userID)
	if err != nil {
		h.logger.Error("Failed to compute log stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
