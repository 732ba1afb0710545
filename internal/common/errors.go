// Package common defines shared constants and sentinel errors used across
// PulseKeeper components. Callers should use errors.Is (and errors.As for
// StatusError) to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound            = errors.New("not found")
	ErrorConstraintViolation = errors.New("constraint violation")
	ErrorStorageUnavailable  = errors.New("storage unavailable")

	// Transport-level errors (enrichment and upload).
	ErrUnreachable = errors.New("service unreachable")
	ErrMalformed   = errors.New("malformed response")
)

// Cancellation carries no sentinel of its own: cooperative interruption
// surfaces as context.Canceled or context.DeadlineExceeded and is matched
// directly.

// StatusError reports a non-2xx HTTP status from an external service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}
