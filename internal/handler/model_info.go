package handler

import (
	"errors"
	"net/http"

	"backend/internal/registry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ModelInfoHandler interface {
	GetInfo(c *gin.Context)
}

type modelInfoHandler struct {
	registry *registry.Registry
	logger   *zap.Logger
}

func NewModelInfoHandler(reg *registry.Registry, logger *zap.Logger) ModelInfoHandler {
	return &modelInfoHandler{registry: reg, logger: logger}
}

// GetInfo handles GET /model/info.
func (h *modelInfoHandler) GetInfo(c *gin.Context) {
	snap, err := h.registry.Active()
	if err != nil {
		if errors.Is(err, registry.ErrNoModelAvailable) {
			c.JSON(http.StatusOK, gin.H{
				"loaded":  false,
				"message": "No trained model available yet",
			})
			return
		}
		h.logger.Error("Failed to read active model", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch model info"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loaded":           true,
		"version":          snap.Version.Version,
		"algorithm":        snap.Version.Algorithm,
		"accuracy":         snap.Version.Accuracy,
		"training_samples": snap.Version.TrainingSamples,
		"trained_at":       snap.Version.TrainedAt,
		"vocabulary_size":  snap.Model.VocabularySize,
	})
}
