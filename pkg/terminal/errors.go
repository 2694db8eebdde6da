package terminal

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined to
	// retry after a failed submission.
	ErrAborted = errors.New("terminal: aborted")
	// ErrTooManyAttempts is returned when MaxAttempts submissions failed.
	ErrTooManyAttempts = errors.New("terminal: too many failed attempts")
)
