package worker

import (
	"context"
	"errors"
)

// JobHandler processes one kind of background job.
type JobHandler interface {
	// Type returns the job type identifier this handler processes. It must
	// match the job_type column written at enqueue time.
	Type() string

	// Handle executes the job. The payload is the raw JSON stored with the
	// job; the handler owns unmarshaling it. Returning an error reschedules
	// the job for retry unless the error is permanent.
	Handle(ctx context.Context, payload []byte) error
}

// PermanentError marks a failure that retrying cannot fix, such as a payload
// referencing a deleted record. Jobs failing with one are marked failed
// immediately instead of being rescheduled.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

// Unwrap supports errors.Is and errors.As through the wrapper.
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewPermanentError wraps err so the worker skips retries for it.
func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or any error it wraps, is a PermanentError.
func IsPermanent(err error) bool {
	var permErr *PermanentError
	return errors.As(err, &permErr)
}
