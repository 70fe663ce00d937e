// Package registry holds the currently active model version. Readers take a
// stable snapshot without locking; promotion is the single mutator.
package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"backend/internal/classifier"
	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

// ErrNoModelAvailable is returned before any version has been promoted.
var ErrNoModelAvailable = errors.New("no model available")

// Snapshot pairs a model version row with its loaded weights. A prediction
// in flight keeps the snapshot it bound to even if a promotion lands
// mid-request.
type Snapshot struct {
	Version *models.ModelVersion
	Model   *classifier.Model
}

type Registry struct {
	repo   repository.ModelVersionRepository
	logger *zap.Logger

	mu     sync.Mutex // serializes promotions
	active atomic.Pointer[Snapshot]
}

func New(repo repository.ModelVersionRepository, logger *zap.Logger) *Registry {
	return &Registry{repo: repo, logger: logger}
}

// Load restores the active model from the database and model directory at
// startup. A missing active version is not an error; the service starts and
// serves 503s until an initial train happens.
func (r *Registry) Load() error {
	mv, err := r.repo.GetActive()
	if errors.Is(err, repository.ErrNoActiveModel) {
		r.logger.Warn("No active model version found; run initial training")
		return nil
	}
	if err != nil {
		return err
	}

	model, err := classifier.LoadModel(mv.FilePath)
	if err != nil {
		return err
	}

	r.active.Store(&Snapshot{Version: mv, Model: model})
	r.logger.Info("Active model loaded",
		zap.String("version", mv.Version),
		zap.Float64("accuracy", mv.Accuracy))
	return nil
}

// Active returns the current snapshot. Lock-free; never blocks a promotion.
func (r *Registry) Active() (*Snapshot, error) {
	snap := r.active.Load()
	if snap == nil {
		return nil, ErrNoModelAvailable
	}
	return snap, nil
}

// Promote activates the candidate version: the database flips
// retired/active in one transaction and advances the feedback watermark,
// then the in-memory pointer swaps in a single store. Serving never
// observes a half-promoted state.
func (r *Registry) Promote(mv *models.ModelVersion, model *classifier.Model, watermark time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.repo.Promote(mv.ID, watermark); err != nil {
		return err
	}
	mv.Status = models.ModelStatusActive
	r.active.Store(&Snapshot{Version: mv, Model: model})

	r.logger.Info("Model version promoted",
		zap.String("version", mv.Version),
		zap.Float64("accuracy", mv.Accuracy),
		zap.Int("training_samples", mv.TrainingSamples))
	return nil
}
