package service

import (
	"errors"
	"fmt"
	"strings"

	"backend/internal/metrics"
	"backend/internal/models"
	"backend/internal/registry"
	"backend/internal/repository"

	"go.uber.org/zap"
)

// ErrInvalidInput is returned for text that is empty after trimming.
var ErrInvalidInput = errors.New("email text must not be empty")

// AnalyzeResult is what the analyze endpoint returns to the client.
type AnalyzeResult struct {
	LogID        int64   `json:"log_id"`
	Result       string  `json:"result"`
	IsSpam       bool    `json:"is_spam"`
	Confidence   float64 `json:"confidence"`
	Message      string  `json:"message"`
	ModelVersion string  `json:"model_version"`
}

type AnalysisService interface {
	Analyze(userID int64, emailText string) (*AnalyzeResult, error)
	Logs(filter models.LogFilter) ([]*models.SpamLog, error)
	Stats(userID *int64) (*models.LogStats, error)
	DeleteOldLogs(days int) (int64, error)
}

type analysisService struct {
	registry          *registry.Registry
	spamLogRepo       repository.SpamLogRepository
	decisionThreshold float64
	logger            *zap.Logger
}

func NewAnalysisService(reg *registry.Registry, spamLogRepo repository.SpamLogRepository, decisionThreshold float64, logger *zap.Logger) AnalysisService {
	return &analysisService{
		registry:          reg,
		spamLogRepo:       spamLogRepo,
		decisionThreshold: decisionThreshold,
		logger:            logger,
	}
}

// Analyze classifies the text against the current active model and records
// the prediction in the analysis log. The snapshot is taken once, so a
// promotion landing mid-call cannot produce a torn read.
func (s *analysisService) Analyze(userID int64, emailText string) (*AnalyzeResult, error) {
	if strings.TrimSpace(emailText) == "" {
		return nil, ErrInvalidInput
	}

	snap, err := s.registry.Active()
	if err != nil {
		return nil, err
	}

	pred := snap.Model.Predict(emailText, s.decisionThreshold)

	entry := &models.SpamLog{
		UserID:       userID,
		EmailText:    emailText,
		Result:       pred.Label,
		Confidence:   pred.Confidence,
		ModelVersion: snap.Version.Version,
	}
	if err := s.spamLogRepo.Save(entry); err != nil {
		s.logger.Error("Failed to save spam log", zap.Error(err))
		return nil, fmt.Errorf("failed to record analysis: %w", err)
	}

	metrics.PredictionsTotal.WithLabelValues(pred.Label).Inc()

	message := "This email looks legitimate"
	if pred.Label == models.LabelSpam {
		message = "This email was classified as spam"
	}

	return &AnalyzeResult{
		LogID:        entry.ID,
		Result:       pred.Label,
		IsSpam:       pred.Label == models.LabelSpam,
		Confidence:   pred.Confidence,
		Message:      message,
		ModelVersion: snap.Version.Version,
	}, nil
}

func (s *analysisService) Logs(filter models.LogFilter) ([]*models.SpamLog, error) {
	return s.spamLogRepo.List(filter)
}

func (s *analysisService) Stats(userID *int64) (*models.LogStats, error) {
	return s.spamLogRepo.Stats(userID)
}

func (s *analysisService) DeleteOldLogs(days int) (int64, error) {
	return s.spamLogRepo.DeleteOlderThan(days)
}
