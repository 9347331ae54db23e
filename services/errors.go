package services

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict means the round (or card set) changed between read and
	// commit. The transaction runner retries it transparently; callers
	// only see it after the retry budget is exhausted.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrRoundMissing means the singleton round record does not exist.
	// Never retried and never recreated by the driver; sessions that hit
	// it must fall back to a safe view. Bootstrap is EnsureRound's job.
	ErrRoundMissing = errors.New("round record missing")
)

// ValidationError is a precondition failure detected inside a transaction.
// Nothing was written; the operation is safe to re-invoke.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransientError wraps a store or network failure. Callers should prompt
// for a retry rather than loop automatically.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "store unavailable: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
