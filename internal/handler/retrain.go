package handler

import (
	"errors"
	"net/http"

	"backend/internal/gate"
	"backend/internal/training"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RetrainHandler interface {
	Status(c *gin.Context)
	Retrain(c *gin.Context)
	TrainInitial(c *gin.Context)
}

type retrainHandler struct {
	gate     *gate.Gate
	pipeline *training.Pipeline
	logger   *zap.Logger
}

func NewRetrainHandler(g *gate.Gate, pipeline *training.Pipeline, logger *zap.Logger) RetrainHandler {
	return &retrainHandler{gate: g, pipeline: pipeline, logger: logger}
}

// Status handles GET /retrain/status.
func (h *retrainHandler) Status(c *gin.Context) {
	status := h.gate.Status()

	message := "Not enough feedback accumulated for retraining"
	if status.Ready {
		message = "Ready to retrain"
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback_count":   status.Count,
		"min_required":     status.MinRequired,
		"ready_to_retrain": status.Ready,
		"message":          message,
	})
}

// Retrain handles POST /retrain. force=true skips the gate threshold.
func (h *retrainHandler) Retrain(c *gin.Context) {
	force := c.Query("force") == "true"

	result, err := h.pipeline.Retrain(c.Request.Context(), force)
	if err != nil {
		h.respondTrainingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Model retrained successfully",
		"success":        true,
		"training_stats": result,
	})
}

// TrainInitial handles POST /retrain/train.
func (h *retrainHandler) TrainInitial(c *gin.Context) {
	result, err := h.pipeline.TrainInitial(c.Request.Context())
	if err != nil {
		h.respondTrainingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Model trained successfully",
		"success":        true,
		"training_stats": result,
	})
}

func (h *retrainHandler) respondTrainingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, training.ErrTrainingInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, training.ErrGateNotReady):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, training.ErrInsufficientData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, training.ErrTrainingRegressed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   err.Error(),
			"message": "The previous model remains active",
		})
	default:
		h.logger.Error("Training run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Training failed"})
	}
}
