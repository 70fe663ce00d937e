package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
)

func TestSpamLogSave(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewSpamLogRepository(db, zap.NewNop())

	entry := &models.SpamLog{
		UserID:       1,
		EmailText:    "win a free cruise",
		Result:       models.LabelSpam,
		Confidence:   0.93,
		ModelVersion: "20250601_120000",
	}

	mock.ExpectQuery("INSERT INTO spam_logs").
		WithArgs(entry.UserID, entry.EmailText, entry.Result, entry.Confidence, entry.ModelVersion).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	if err := repo.Save(entry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if entry.ID != 7 {
		t.Fatalf("ID = %d, want 7", entry.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSpamLogGetByIDNotFound(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewSpamLogRepository(db, zap.NewNop())

	mock.ExpectQuery("SELECT id, user_id, email_text").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSpamLogListAppliesFilterAndPaging(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewSpamLogRepository(db, zap.NewNop())

	userID := int64(5)
	cols := []string{"id", "user_id", "email_text", "result", "confidence", "model_version", "is_correct", "created_at"}
	mock.ExpectQuery("SELECT id, user_id, email_text").
		WithArgs(userID, models.LabelSpam, 20, 40).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), userID, "free cash", "spam", 0.9, "v1", nil, time.Now()))

	entries, err := repo.List(models.LogFilter{
		UserID: &userID,
		Result: models.LabelSpam,
		Limit:  20,
		Offset: 40,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSpamLogListDefaultsLimit(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewSpamLogRepository(db, zap.NewNop())

	// Limit 0 and out-of-range limits fall back to 50.
	cols := []string{"id", "user_id", "email_text", "result", "confidence", "model_version", "is_correct", "created_at"}
	mock.ExpectQuery("SELECT id, user_id, email_text").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(cols))

	if _, err := repo.List(models.LogFilter{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSpamLogStats(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewSpamLogRepository(db, zap.NewNop())

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"total", "spam", "rated", "correct"}).
			AddRow(int64(10), int64(4), int64(5), int64(4)))

	stats, err := repo.Stats(nil)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalAnalyses != 10 || stats.SpamDetected != 4 || stats.HamDetected != 6 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AccuracyRate != 80 {
		t.Fatalf("AccuracyRate = %f, want 80", stats.AccuracyRate)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSpamLogDeleteOlderThan(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewSpamLogRepository(db, zap.NewNop())

	mock.ExpectExec("DELETE FROM spam_logs").
		WithArgs(30).
		WillReturnResult(sqlmock.NewResult(0, 17))

	deleted, err := repo.DeleteOlderThan(30)
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if deleted != 17 {
		t.Fatalf("deleted = %d, want 17", deleted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
