package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateFeedback is returned when a spam log already has feedback.
	ErrDuplicateFeedback = errors.New("feedback already exists for this log")
)
