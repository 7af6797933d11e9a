package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidPitch        = errors.New("invalid pitch")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrIncompleteSong      = errors.New("incomplete song")
	ErrPauseOutOfRange     = errors.New("pause does not fit in one byte")
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
	ErrSessionClosed       = errors.New("session closed")
)

// UnplayableNoteError reports the first note (zero based) that the device
// cannot represent.
type UnplayableNoteError struct {
	Index  int
	Reason string
}

func (e *UnplayableNoteError) Error() string {
	return fmt.Sprintf("note %d is unplayable: %s", e.Index+1, e.Reason)
}

// TransportError wraps an I/O failure together with the session state
// that was reached before it happened.
type TransportError struct {
	State string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed after %s: %v", e.State, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
