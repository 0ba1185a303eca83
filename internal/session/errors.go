package session

import "errors"

var (
	// ErrInsufficientContent means the candidate pool cannot satisfy the
	// requested item count for the requested review mode.
	ErrInsufficientContent = errors.New("session: insufficient content for requested mode and count")

	// ErrPersistence wraps a repository or store failure. The operation
	// that returned it left no partial state behind.
	ErrPersistence = errors.New("session: persistence failed")

	// ErrInvalidOperation means the operation is forbidden in the
	// session's current state, for example grading a completed session.
	// The session is left untouched.
	ErrInvalidOperation = errors.New("session: invalid operation for current state")
)
