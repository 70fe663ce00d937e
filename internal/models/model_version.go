package models

import "time"

// Model version lifecycle. A version moves strictly
// training -> ready -> active -> retired, or training -> discarded when it
// fails evaluation. Exactly one version is active at any time.
const (
	ModelStatusTraining  = "training"
	ModelStatusReady     = "ready"
	ModelStatusActive    = "active"
	ModelStatusRetired   = "retired"
	ModelStatusDiscarded = "discarded"
)

// ModelVersion is the registry row for one trained model. The weights
// themselves live in a JSON file under the configured model directory;
// FilePath points at it.
type ModelVersion struct {
	ID              int64     `db:"id" json:"id"`
	Version         string    `db:"version" json:"version"`
	Status          string    `db:"status" json:"status"`
	Algorithm       string    `db:"algorithm" json:"algorithm"`
	Accuracy        float64   `db:"accuracy" json:"accuracy"`
	TrainingSamples int       `db:"training_samples" json:"training_samples"`
	FilePath        string    `db:"file_path" json:"-"`
	TrainedAt       time.Time `db:"trained_at" json:"trained_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// TrainingSample is one labeled text used to build a model, either from the
// base corpus or from a corrected prediction.
type TrainingSample struct {
	Text  string
	Label string
}
