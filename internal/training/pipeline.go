// Package training builds candidate models from the base corpus plus
// corrective feedback and promotes them when they hold up.
package training

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"backend/internal/classifier"
	"backend/internal/gate"
	"backend/internal/metrics"
	"backend/internal/models"
	"backend/internal/registry"
	"backend/internal/repository"

	"go.uber.org/zap"
)

var (
	// ErrTrainingInProgress means another training run holds the exclusive lock.
	ErrTrainingInProgress = errors.New("training already in progress")
	// ErrInsufficientData means too few samples were available; retry after
	// more feedback arrives.
	ErrInsufficientData = errors.New("insufficient training data")
	// ErrTrainingRegressed means the candidate evaluated below the active
	// model and was discarded; the old model keeps serving.
	ErrTrainingRegressed = errors.New("candidate model regressed; not promoted")
	// ErrGateNotReady means the retrain gate threshold has not been reached.
	ErrGateNotReady = errors.New("not enough feedback accumulated for retraining")
)

// Notifier receives training outcomes. Implementations must not block.
type Notifier interface {
	RetrainSucceeded(result Result)
	RetrainFailed(err error)
}

// Result summarizes a completed training run.
type Result struct {
	Version         string    `json:"version"`
	Accuracy        float64   `json:"accuracy"`
	TrainingSamples int       `json:"training_samples"`
	FeedbackUsed    int       `json:"feedback_used"`
	RetrainedAt     time.Time `json:"retrained_at"`
}

// Config carries the training knobs from the YAML config.
type Config struct {
	ModelDir           string
	BaseCorpusPath     string
	MaxFeatures        int
	DecisionThreshold  float64
	TestFraction       float64
	MinTrainingSamples int
	AllowedRegression  float64
}

// Pipeline runs initial training and feedback-driven retraining. At most one
// run executes at a time system-wide; concurrent callers fail fast.
type Pipeline struct {
	cfg          Config
	gate         *gate.Gate
	registry     *registry.Registry
	feedbackRepo repository.FeedbackRepository
	modelRepo    repository.ModelVersionRepository
	notifier     Notifier
	logger       *zap.Logger

	running atomic.Bool
}

func NewPipeline(
	cfg Config,
	g *gate.Gate,
	reg *registry.Registry,
	feedbackRepo repository.FeedbackRepository,
	modelRepo repository.ModelVersionRepository,
	notifier Notifier,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		gate:         g,
		registry:     reg,
		feedbackRepo: feedbackRepo,
		modelRepo:    modelRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// TrainInitial builds the first model from the base corpus alone. Used when
// no version has ever been promoted.
func (p *Pipeline) TrainInitial(ctx context.Context) (*Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrTrainingInProgress
	}
	defer p.running.Store(false)

	samples, err := classifier.LoadCorpus(p.cfg.BaseCorpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load base corpus: %w", err)
	}
	if len(samples) < p.cfg.MinTrainingSamples {
		return nil, ErrInsufficientData
	}

	// Initial training consumes no feedback, so the watermark stays put.
	watermark, err := p.modelRepo.GetWatermark()
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback watermark: %w", err)
	}

	result, err := p.buildAndPromote(ctx, samples, 0, -1, watermark)
	if err != nil {
		metrics.RetrainsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RetrainsTotal.WithLabelValues("success").Inc()
	return result, nil
}

// Retrain consumes the gate and builds a new model from the base corpus plus
// every misclassified correction since the watermark. force skips the gate
// threshold check (operator escape hatch); the gate is consumed either way.
func (p *Pipeline) Retrain(ctx context.Context, force bool) (*Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrTrainingInProgress
	}
	defer p.running.Store(false)

	if !force && !p.gate.Status().Ready {
		return nil, ErrGateNotReady
	}

	// The counter is gone from here on, even if this run fails.
	consumed := p.gate.Consume()

	watermark, err := p.modelRepo.GetWatermark()
	if err != nil {
		p.failed(err)
		return nil, fmt.Errorf("failed to read feedback watermark: %w", err)
	}

	// Everything up to this instant is consumed by this run; the watermark
	// advances to it on promotion.
	cutoff := time.Now()

	corrections, err := p.feedbackRepo.ListMisclassifiedSince(watermark)
	if err != nil {
		p.failed(err)
		return nil, fmt.Errorf("failed to load feedback corrections: %w", err)
	}

	samples, err := classifier.LoadCorpus(p.cfg.BaseCorpusPath)
	if err != nil {
		// Matches the original behavior: a missing base corpus degrades to
		// feedback-only training instead of failing the run.
		if !os.IsNotExist(errors.Unwrap(err)) {
			p.failed(err)
			return nil, fmt.Errorf("failed to load base corpus: %w", err)
		}
		p.logger.Warn("Base corpus not found, training on feedback only",
			zap.String("path", p.cfg.BaseCorpusPath))
		samples = nil
	}
	samples = append(samples, corrections...)

	if len(samples) < p.cfg.MinTrainingSamples {
		p.failed(ErrInsufficientData)
		return nil, ErrInsufficientData
	}

	activeAccuracy := -1.0
	if active, err := p.registry.Active(); err == nil {
		activeAccuracy = active.Version.Accuracy
	}

	p.logger.Info("Starting retraining",
		zap.Int("samples", len(samples)),
		zap.Int("corrections", len(corrections)),
		zap.Int("gate_count_consumed", consumed))

	result, err := p.buildAndPromote(ctx, samples, len(corrections), activeAccuracy, cutoff)
	if err != nil {
		if errors.Is(err, ErrTrainingRegressed) {
			metrics.RetrainsTotal.WithLabelValues("regressed").Inc()
		} else {
			metrics.RetrainsTotal.WithLabelValues("error").Inc()
		}
		p.failed(err)
		return nil, err
	}

	metrics.RetrainsTotal.WithLabelValues("success").Inc()
	if p.notifier != nil {
		p.notifier.RetrainSucceeded(*result)
	}
	return result, nil
}

// buildAndPromote trains a candidate, evaluates it on a hold-out split and
// promotes it unless it regresses past the allowed tolerance. activeAccuracy
// < 0 means there is no bar to clear (initial training).
func (p *Pipeline) buildAndPromote(ctx context.Context, samples []models.TrainingSample, feedbackUsed int, activeAccuracy float64, watermark time.Time) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trainSet, testSet := classifier.TrainTestSplit(samples, p.cfg.TestFraction)

	model := classifier.Train(trainSet, p.cfg.MaxFeatures)
	accuracy := classifier.Evaluate(model, testSet, p.cfg.DecisionThreshold)

	model.Version = time.Now().Format("20060102_150405")
	model.Accuracy = accuracy

	mv := &models.ModelVersion{
		Version:         model.Version,
		Status:          models.ModelStatusTraining,
		Algorithm:       classifier.Algorithm,
		Accuracy:        accuracy,
		TrainingSamples: len(trainSet),
		TrainedAt:       model.TrainedAt,
	}

	path, err := classifier.SaveModel(p.cfg.ModelDir, model)
	if err != nil {
		return nil, fmt.Errorf("failed to persist model weights: %w", err)
	}
	mv.FilePath = path

	if err := p.modelRepo.Create(mv); err != nil {
		return nil, fmt.Errorf("failed to record model version: %w", err)
	}

	if activeAccuracy >= 0 && accuracy < activeAccuracy-p.cfg.AllowedRegression {
		if err := p.modelRepo.UpdateStatus(mv.ID, models.ModelStatusDiscarded); err != nil {
			p.logger.Error("Failed to mark regressed candidate as discarded", zap.Error(err))
		}
		p.logger.Warn("Candidate model regressed and was discarded",
			zap.String("version", mv.Version),
			zap.Float64("candidate_accuracy", accuracy),
			zap.Float64("active_accuracy", activeAccuracy))
		return nil, fmt.Errorf("%w: candidate %.4f vs active %.4f", ErrTrainingRegressed, accuracy, activeAccuracy)
	}

	if err := p.modelRepo.UpdateStatus(mv.ID, models.ModelStatusReady); err != nil {
		return nil, fmt.Errorf("failed to mark candidate ready: %w", err)
	}
	mv.Status = models.ModelStatusReady

	if err := p.registry.Promote(mv, model, watermark); err != nil {
		return nil, fmt.Errorf("failed to promote candidate: %w", err)
	}
	metrics.ActiveModelAccuracy.Set(accuracy)

	return &Result{
		Version:         mv.Version,
		Accuracy:        accuracy,
		TrainingSamples: mv.TrainingSamples,
		FeedbackUsed:    feedbackUsed,
		RetrainedAt:     mv.TrainedAt,
	}, nil
}

func (p *Pipeline) failed(err error) {
	if p.notifier != nil {
		p.notifier.RetrainFailed(err)
	}
}
