package models

import "time"

// UserFeedback is a user's correction of a prior prediction. At most one
// feedback row exists per spam log (UNIQUE constraint on spam_log_id);
// the first submission wins and later ones are rejected.
type UserFeedback struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	SpamLogID        int64     `db:"spam_log_id" json:"spam_log_id"`
	OriginalResult   string    `db:"original_result" json:"original_result"`
	CorrectedResult  string    `db:"corrected_result" json:"corrected_result"`
	WasMisclassified bool      `db:"was_misclassified" json:"was_misclassified"`
	Comment          *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// FeedbackDetail is a feedback row joined with the email text of the
// prediction it corrects, for the admin console.
type FeedbackDetail struct {
	UserFeedback
	Username  string `db:"username" json:"username"`
	EmailText string `db:"email_text" json:"email_text"`
}
