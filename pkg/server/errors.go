package server

import (
	"errors"
	"fmt"

	lerrors "github.com/vango-dev/livedom/internal/errors"
)

// Sentinel errors for common session and server error conditions.
var (
	// ErrSessionClosed is returned when an operation is attempted on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrSessionNotFound is returned when a session ID does not exist.
	ErrSessionNotFound = errors.New("server: session not found")

	// ErrSessionAttached is returned when a second connection claims a session.
	ErrSessionAttached = errors.New("server: session already connected")

	// ErrMaxSessionsReached is returned when the maximum number of sessions is reached.
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrNoConnection is returned when attempting to send on a nil connection.
	ErrNoConnection = errors.New("server: no connection")

	// ErrUnknownTarget is returned when an event names a node the session
	// does not have attached.
	ErrUnknownTarget = errors.New("server: unknown event target")

	// ErrHandlerPanic is returned when an event handler or a Do callback
	// panicked. The panic is recovered and logged.
	ErrHandlerPanic = errors.New("server: handler panic")
)

// SessionError wraps an error with session context for debugging.
type SessionError struct {
	SessionID string
	Op        string // Operation that failed
	Err       error  // Underlying error
}

// Error returns the error message with session context.
func (e *SessionError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("server: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewSessionError creates a new SessionError.
func NewSessionError(sessionID, op string, err error) *SessionError {
	return &SessionError{
		SessionID: sessionID,
		Op:        op,
		Err:       err,
	}
}

func unknownTarget(id uint64) error {
	return lerrors.New("L204").
		WithDetailf("node %d", id).
		WithSuggestion("The node was removed before the event arrived; the event is dropped.").
		Wrap(ErrUnknownTarget)
}

func handlerPanic(op string) error {
	return lerrors.New("L107").
		WithDetailf("%s handler", op).
		Wrap(ErrHandlerPanic)
}
