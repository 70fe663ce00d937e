package repository

import (
	"database/sql"
	"errors"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrNoActiveModel is returned before any version has ever been promoted.
var ErrNoActiveModel = errors.New("no active model version")

// ModelVersionRepository handles database operations for the model registry.
type ModelVersionRepository interface {
	Create(mv *models.ModelVersion) error
	UpdateStatus(id int64, status string) error
	GetActive() (*models.ModelVersion, error)
	// Promote atomically activates the candidate: the current active
	// version (if any) is retired, the candidate moves ready -> active and
	// the feedback watermark advances, all in one transaction.
	Promote(candidateID int64, watermark time.Time) error
	GetWatermark() (time.Time, error)
}

type modelVersionRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewModelVersionRepository(db *sqlx.DB, log *zap.Logger) ModelVersionRepository {
	return &modelVersionRepository{db: db, log: log}
}

func (r *modelVersionRepository) Create(mv *models.ModelVersion) error {
	query := `
		INSERT INTO model_versions (version, status, algorithm, accuracy, training_samples, file_path, trained_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.db.QueryRowx(query,
		mv.Version, mv.Status, mv.Algorithm, mv.Accuracy, mv.TrainingSamples, mv.FilePath, mv.TrainedAt,
	).Scan(&mv.ID, &mv.CreatedAt)
}

func (r *modelVersionRepository) UpdateStatus(id int64, status string) error {
	result, err := r.db.Exec(`UPDATE model_versions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *modelVersionRepository) GetActive() (*models.ModelVersion, error) {
	var mv models.ModelVersion
	query := `
		SELECT id, version, status, algorithm, accuracy, training_samples, file_path, trained_at, created_at
		FROM model_versions WHERE status = 'active'
	`
	err := r.db.Get(&mv, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveModel
	}
	if err != nil {
		return nil, err
	}
	return &mv, nil
}

func (r *modelVersionRepository) Promote(candidateID int64, watermark time.Time) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE model_versions SET status = 'retired' WHERE status = 'active'`); err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE model_versions SET status = 'active' WHERE id = $1 AND status = 'ready'`, candidateID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Candidate was not in the ready state; refuse the promotion.
		return ErrNotFound
	}

	if _, err := tx.Exec(`UPDATE retrain_state SET watermark = $1, updated_at = NOW() WHERE id = 1`, watermark); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *modelVersionRepository) GetWatermark() (time.Time, error) {
	var watermark time.Time
	err := r.db.Get(&watermark, `SELECT watermark FROM retrain_state WHERE id = 1`)
	if err != nil {
		return time.Time{}, err
	}
	return watermark, nil
}
