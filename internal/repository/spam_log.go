package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SpamLogRepository handles database operations for the analysis log.
type SpamLogRepository interface {
	Save(log *models.SpamLog) error
	GetByID(id int64) (*models.SpamLog, error)
	List(filter models.LogFilter) ([]*models.SpamLog, error)
	Stats(userID *int64) (*models.LogStats, error)
	DeleteOlderThan(days int) (int64, error)
}

type spamLogRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewSpamLogRepository(db *sqlx.DB, log *zap.Logger) SpamLogRepository {
	return &spamLogRepository{db: db, log: log}
}

func (r *spamLogRepository) Save(entry *models.SpamLog) error {
	query := `
		INSERT INTO spam_logs (user_id, email_text, result, confidence, model_version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowx(query,
		entry.UserID, entry.EmailText, entry.Result, entry.Confidence, entry.ModelVersion,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *spamLogRepository) GetByID(id int64) (*models.SpamLog, error) {
	var entry models.SpamLog
	query := `
		SELECT id, user_id, email_text, result, confidence, model_version, is_correct, created_at
		FROM spam_logs WHERE id = $1
	`
	err := r.db.Get(&entry, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *spamLogRepository) List(filter models.LogFilter) ([]*models.SpamLog, error) {
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Result != "" {
		args = append(args, filter.Result)
		conditions = append(conditions, fmt.Sprintf("result = $%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.Until != nil {
		args = append(args, *filter.Until)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT id, user_id, email_text, result, confidence, model_version, is_correct, created_at FROM spam_logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var entries []*models.SpamLog
	if err := r.db.Select(&entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *spamLogRepository) Stats(userID *int64) (*models.LogStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE result = 'spam') AS spam,
			COUNT(*) FILTER (WHERE is_correct IS NOT NULL) AS rated,
			COUNT(*) FILTER (WHERE is_correct) AS correct
		FROM spam_logs
	`
	var args []interface{}
	if userID != nil {
		query += " WHERE user_id = $1"
		args = append(args, *userID)
	}

	var total, spam, rated, correct int64
	if err := r.db.QueryRowx(query, args...).Scan(&total, &spam, &rated, &correct); err != nil {
		return nil, err
	}

	stats := &models.LogStats{
		TotalAnalyses: total,
		SpamDetected:  spam,
		HamDetected:   total - spam,
	}
	if rated > 0 {
		stats.AccuracyRate = float64(correct) / float64(rated) * 100
	}
	return stats, nil
}

func (r *spamLogRepository) DeleteOlderThan(days int) (int64, error) {
	query := `DELETE FROM spam_logs WHERE created_at < NOW() - ($1 * INTERVAL '1 day')`
	result, err := r.db.Exec(query, days)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
