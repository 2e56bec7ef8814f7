package inmem

import (
	"context"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/trustlane/identity-gateway/internal/session"
)

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"login_sessions": {
			Name: "login_sessions",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "InvitationID"},
				},
				"created": {
					Name:         "created",
					Unique:       false,
					AllowMissing: false,
					Indexer:      &memdb.IntFieldIndex{Field: "Created"},
				},
			},
		},
	},
}

// Driver represents the in-memory login session storage driver built using hashicorp/go-memdb
type Driver struct {
	db       *memdb.MemDB
	lifetime time.Duration
}

var _ session.Storage = (*Driver)(nil)

// New creates a new empty in-memory login session storage driver.
// Sessions older than the given lifetime are removed by DeleteExpired.
func New(lifetime time.Duration) (*Driver, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}
	return &Driver{
		db:       db,
		lifetime: lifetime,
	}, nil
}

// Create creates a new pending session for the given invitation ID.
// It returns session.ErrAlreadyExists if the invitation ID is already in use.
func (driver *Driver) Create(_ context.Context, invitationID, role string) (*session.Session, error) {
	txn := driver.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First("login_sessions", "id", invitationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, session.ErrAlreadyExists
	}

	ses := &session.Session{
		InvitationID: invitationID,
		Status:       session.StatusPending,
		Role:         role,
		Created:      time.Now().Unix(),
	}
	if err := txn.Insert("login_sessions", ses); err != nil {
		return nil, err
	}
	txn.Commit()

	copied := *ses
	return &copied, nil
}

// Get retrieves a session by its invitation ID
func (driver *Driver) Get(_ context.Context, invitationID string) (*session.Session, error) {
	txn := driver.db.Txn(false)
	obj, err := txn.First("login_sessions", "id", invitationID)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}

	copied := *(obj.(*session.Session))
	return &copied, nil
}

// Activate transitions a pending session to the active status
func (driver *Driver) Activate(_ context.Context, invitationID, connectionID, token string) (*session.Session, error) {
	return driver.transition(invitationID, func(ses *session.Session) {
		ses.Status = session.StatusActive
		ses.ConnectionID = connectionID
		ses.Token = token
	})
}

// Fail transitions a pending session to the failed status
func (driver *Driver) Fail(_ context.Context, invitationID string) (*session.Session, error) {
	return driver.transition(invitationID, func(ses *session.Session) {
		ses.Status = session.StatusFailed
	})
}

// transition performs an at-most-once transition out of the pending status.
// Stored objects are never mutated in place as go-memdb shares them with readers.
func (driver *Driver) transition(invitationID string, apply func(*session.Session)) (*session.Session, error) {
	txn := driver.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First("login_sessions", "id", invitationID)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}

	current := obj.(*session.Session)
	if current.Status != session.StatusPending {
		return nil, session.ErrNotPending
	}

	updated := *current
	apply(&updated)
	if err := txn.Insert("login_sessions", &updated); err != nil {
		return nil, err
	}
	txn.Commit()

	copied := updated
	return &copied, nil
}

// DeleteExpired removes all sessions that were created before the retention cutoff
func (driver *Driver) DeleteExpired(_ context.Context) (int, error) {
	txn := driver.db.Txn(true)
	defer txn.Abort()

	it, err := txn.LowerBound("login_sessions", "created", int64(0))
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-driver.lifetime).Unix()
	deleted := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		ses := obj.(*session.Session)
		if ses.Created > cutoff {
			break
		}
		if err := txn.Delete("login_sessions", ses); err != nil {
			return 0, err
		}
		deleted++
	}

	txn.Commit()
	return deleted, nil
}
