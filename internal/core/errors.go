package core

import "errors"

// Sentinels for failures that callers must tell apart. Operations wrap these
// with fmt.Errorf("...: %w", err); the HTTP boundary classifies with
// errors.Is / errors.As.
var (
	// ErrStoreUnavailable means the transaction store could not be reached.
	// Distinct from an empty result, which is returned as a valid report.
	ErrStoreUnavailable = errors.New("transaction store unavailable")

	// ErrExportTooLarge means an export would exceed the configured row cap.
	// No partial file is produced; the caller must narrow its range.
	ErrExportTooLarge = errors.New("export exceeds row cap")
)

// ValidationError marks a request the caller must fix. It is always raised
// before any store access and is never retried.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidation reports whether err (or anything it wraps) is a client-side
// validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
