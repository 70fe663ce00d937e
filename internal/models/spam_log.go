package models

import "time"

// Classification labels. Every prediction and every feedback correction is
// one of these two values.
const (
	LabelSpam = "spam"
	LabelHam  = "ham"
)

// SpamLog is one served prediction. It is written once by the analysis
// service and only its is_correct field may change afterwards, exactly once,
// when feedback for it is submitted.
type SpamLog struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	EmailText    string    `db:"email_text" json:"email_text"`
	Result       string    `db:"result" json:"result"`
	Confidence   float64   `db:"confidence" json:"confidence"`
	ModelVersion string    `db:"model_version" json:"model_version"`
	IsCorrect    *bool     `db:"is_correct" json:"is_correct,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// LogFilter narrows SpamLog queries. Zero values mean "no filter".
type LogFilter struct {
	UserID *int64
	Result string
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

// LogStats are the aggregate counters shown on the dashboard.
type LogStats struct {
	TotalAnalyses int64   `json:"total_analyses"`
	SpamDetected  int64   `json:"spam_detected"`
	HamDetected   int64   `json:"ham_detected"`
	AccuracyRate  float64 `json:"accuracy_rate"`
}
