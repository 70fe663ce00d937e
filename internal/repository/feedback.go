package repository

import (
	"database/sql"
	"errors"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pqUniqueViolation = "23505"

// FeedbackRepository handles database operations for user corrections.
type FeedbackRepository interface {
	// Create inserts the feedback and marks the corrected spam log's
	// is_correct flag in the same transaction. Returns
	// ErrDuplicateFeedback when the log already has feedback.
	Create(fb *models.UserFeedback) error
	GetByID(id int64) (*models.UserFeedback, error)
	List(limit int) ([]*models.FeedbackDetail, error)
	CountByUser(userID int64) (int, error)
	// Delete removes the feedback and returns the deleted row so the
	// caller can adjust the retrain gate.
	Delete(id int64) (*models.UserFeedback, error)
	CountMisclassifiedSince(since time.Time) (int, error)
	ListMisclassifiedSince(since time.Time) ([]models.TrainingSample, error)
}

type feedbackRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewFeedbackRepository(db *sqlx.DB, log *zap.Logger) FeedbackRepository {
	return &feedbackRepository{db: db, log: log}
}

func (r *feedbackRepository) Create(fb *models.UserFeedback) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO user_feedbacks (user_id, spam_log_id, original_result, corrected_result, was_misclassified, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err = tx.QueryRowx(query,
		fb.UserID, fb.SpamLogID, fb.OriginalResult, fb.CorrectedResult, fb.WasMisclassified, fb.Comment,
	).Scan(&fb.ID, &fb.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateFeedback
		}
		return err
	}

	// The prediction was correct iff the user confirmed the original label.
	_, err = tx.Exec(`UPDATE spam_logs SET is_correct = $1 WHERE id = $2`, !fb.WasMisclassified, fb.SpamLogID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *feedbackRepository) GetByID(id int64) (*models.UserFeedback, error) {
	var fb models.UserFeedback
	query := `
		SELECT id, user_id, spam_log_id, original_result, corrected_result, was_misclassified, comment, created_at
		FROM user_feedbacks WHERE id = $1
	`
	err := r.db.Get(&fb, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *feedbackRepository) List(limit int) ([]*models.FeedbackDetail, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT f.id, f.user_id, f.spam_log_id, f.original_result, f.corrected_result,
		       f.was_misclassified, f.comment, f.created_at,
		       u.username, s.email_text
		FROM user_feedbacks f
		JOIN users u ON u.id = f.user_id
		JOIN spam_logs s ON s.id = f.spam_log_id
		ORDER BY f.created_at DESC
		LIMIT $1
	`
	var details []*models.FeedbackDetail
	if err := r.db.Select(&details, query, limit); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *feedbackRepository) CountByUser(userID int64) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM user_feedbacks WHERE user_id = $1`, userID)
	return count, err
}

func (r *feedbackRepository) Delete(id int64) (*models.UserFeedback, error) {
	var fb models.UserFeedback
	query := `
		DELETE FROM user_feedbacks WHERE id = $1
		RETURNING id, user_id, spam_log_id, original_result, corrected_result, was_misclassified, comment, created_at
	`
	err := r.db.QueryRowx(query, id).StructScan(&fb)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *feedbackRepository) CountMisclassifiedSince(since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_feedbacks WHERE was_misclassified AND created_at > $1`
	err := r.db.Get(&count, query, since)
	return count, err
}

func (r *feedbackRepository) ListMisclassifiedSince(since time.Time) ([]models.TrainingSample, error) {
	query := `
		SELECT s.email_text, f.corrected_result
		FROM user_feedbacks f
		JOIN spam_logs s ON s.id = f.spam_log_id
		WHERE f.was_misclassified AND f.created_at > $1
		ORDER BY f.created_at
	`
	rows, err := r.db.Queryx(query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.TrainingSample
	for rows.Next() {
		var s models.TrainingSample
		if err := rows.Scan(&s.Text, &s.Label); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
