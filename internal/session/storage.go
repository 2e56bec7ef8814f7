package session

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyExists is returned when a session is created with an invitation ID that is already in use.
	// A reused invitation ID must never silently replace an in-flight login attempt.
	ErrAlreadyExists = errors.New("a session with this invitation ID already exists")

	// ErrNotPending is returned when a terminal transition is attempted on a session that already is terminal
	ErrNotPending = errors.New("the session is not pending")
)

// Storage defines the login session storage API
type Storage interface {
	// Create creates a new pending session for the given invitation ID.
	// It returns ErrAlreadyExists if the invitation ID is already in use.
	Create(ctx context.Context, invitationID, role string) (*Session, error)

	// Get retrieves a session by its invitation ID.
	// It returns nil if no session with that ID exists.
	Get(ctx context.Context, invitationID string) (*Session, error)

	// Activate transitions a pending session to the active status, attaching the
	// connection ID and the issued token. The transition happens at most once;
	// ErrNotPending is returned if the session already is terminal and nil if it
	// does not exist at all.
	Activate(ctx context.Context, invitationID, connectionID, token string) (*Session, error)

	// Fail transitions a pending session to the failed status using the same
	// at-most-once discipline as Activate.
	Fail(ctx context.Context, invitationID string) (*Session, error)

	// DeleteExpired removes all sessions that were created before the retention cutoff
	DeleteExpired(ctx context.Context) (int, error)
}
