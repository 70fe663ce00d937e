package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"backend/internal/gate"
	"backend/internal/metrics"
	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

var (
	// ErrLogNotFound means the referenced prediction does not exist or is
	// not visible to the caller.
	ErrLogNotFound = errors.New("spam log not found")
	// ErrDuplicateFeedback means the prediction already has feedback; the
	// first submission wins.
	ErrDuplicateFeedback = errors.New("feedback already submitted for this log")
	// ErrFeedbackNotFound means the feedback id is unknown.
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrInvalidLabel means the corrected result is neither spam nor ham.
	ErrInvalidLabel = errors.New("corrected result must be 'spam' or 'ham'")
)

type FeedbackService interface {
	Submit(userID int64, isAdmin bool, spamLogID int64, correctedResult string, comment *string) (*models.UserFeedback, error)
	List(limit int) ([]*models.FeedbackDetail, error)
	Delete(feedbackID int64) error
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	spamLogRepo  repository.SpamLogRepository
	gate         *gate.Gate
	logger       *zap.Logger
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository, spamLogRepo repository.SpamLogRepository, g *gate.Gate, logger *zap.Logger) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		spamLogRepo:  spamLogRepo,
		gate:         g,
		logger:       logger,
	}
}

// NormalizeLabel maps user-supplied corrections onto the canonical labels.
// "not spam" and "not-spam" are accepted as aliases for ham.
func NormalizeLabel(label string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "not spam" || l == "not-spam" {
		l = models.LabelHam
	}
	if l != models.LabelSpam && l != models.LabelHam {
		return "", ErrInvalidLabel
	}
	return l, nil
}

// Submit stores the correction and synchronously notifies the retrain gate,
// so the gate counter always matches the stored feedback. Duplicate
// submissions for the same prediction are rejected by the store's
// uniqueness constraint, not overwritten.
func (s *feedbackService) Submit(userID int64, isAdmin bool, spamLogID int64, correctedResult string, comment *string) (*models.UserFeedback, error) {
	corrected, err := NormalizeLabel(correctedResult)
	if err != nil {
		return nil, err
	}

	entry, err := s.spamLogRepo.GetByID(spamLogID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load spam log: %w", err)
	}
	// Users may only correct their own analyses.
	if !isAdmin && entry.UserID != userID {
		return nil, ErrLogNotFound
	}

	fb := &models.UserFeedback{
		UserID:           userID,
		SpamLogID:        spamLogID,
		OriginalResult:   entry.Result,
		CorrectedResult:  corrected,
		WasMisclassified: entry.Result != corrected,
		Comment:          comment,
	}

	if err := s.feedbackRepo.Create(fb); err != nil {
		if errors.Is(err, repository.ErrDuplicateFeedback) {
			return nil, ErrDuplicateFeedback
		}
		s.logger.Error("Failed to store feedback", zap.Error(err))
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	s.gate.OnFeedback(fb.WasMisclassified)
	metrics.FeedbackTotal.WithLabelValues(strconv.FormatBool(fb.WasMisclassified)).Inc()

	s.logger.Info("Feedback recorded",
		zap.Int64("spam_log_id", spamLogID),
		zap.String("original", fb.OriginalResult),
		zap.String("corrected", fb.CorrectedResult),
		zap.Bool("was_misclassified", fb.WasMisclassified))

	return fb, nil
}

func (s *feedbackService) List(limit int) ([]*models.FeedbackDetail, error) {
	return s.feedbackRepo.List(limit)
}

// Delete removes a feedback record and reverses its effect on the gate
// counter.
func (s *feedbackService) Delete(feedbackID int64) error {
	fb, err := s.feedbackRepo.Delete(feedbackID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFeedbackNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	s.gate.OnFeedbackDeleted(fb.WasMisclassified)
	s.logger.Info("Feedback deleted",
		zap.Int64("feedback_id", feedbackID),
		zap.Bool("was_misclassified", fb.WasMisclassified))
	return nil
}
