// Package watcher periodically checks the retrain gate and triggers
// retraining once enough misclassification feedback has accumulated.
package watcher

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"backend/internal/gate"
	"backend/internal/training"
)

// Watcher polls the gate and kicks off a retrain when it reports ready.
// A run already in progress is not an error; the next tick tries again.
type Watcher struct {
	gate         *gate.Gate
	pipeline     *training.Pipeline
	pollInterval time.Duration
	logger       *zap.Logger
}

func New(g *gate.Gate, pipeline *training.Pipeline, pollInterval time.Duration, logger *zap.Logger) *Watcher {
	return &Watcher{
		gate:         g,
		pipeline:     pipeline,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Run blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info("Retrain watcher started", zap.Duration("poll_interval", w.pollInterval))

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Retrain watcher stopped.")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	status := w.gate.Status()
	if !status.Ready {
		return
	}

	w.logger.Info("Retrain gate ready, starting automatic retraining",
		zap.Int("feedback_count", status.Count),
		zap.Int("min_required", status.MinRequired))

	result, err := w.pipeline.Retrain(ctx, false)
	if err != nil {
		if errors.Is(err, training.ErrTrainingInProgress) {
			w.logger.Info("Training already running, skipping tick")
			return
		}
		w.logger.Error("Automatic retraining failed", zap.Error(err))
		return
	}

	w.logger.Info("Automatic retraining completed",
		zap.String("version", result.Version),
		zap.Float64("accuracy", result.Accuracy))
}
