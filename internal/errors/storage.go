package errors

import (
	"context"
	"errors"
)

// FromStorage wraps a credential storage failure. Context cancellation and
// deadlines keep their own codes so callers can tell an aborted write from a
// broken backend.
func FromStorage(err error, message string) *AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, message+": canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, message+": timed out")
	default:
		return Wrap(err, ErrCodeStorage, message)
	}
}
