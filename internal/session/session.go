package session

// Status represents the lifecycle status of an invitation-based login session
type Status string

const (
	// StatusPending marks a session whose invitation was created but whose connection is not active yet
	StatusPending Status = "pending"
	// StatusActive marks a session whose connection reached the active state and whose token was issued
	StatusActive Status = "active"
	// StatusFailed marks a session that terminally failed before reaching the active state
	StatusFailed Status = "failed"
)

// Session represents an in-flight invitation-based login.
// A session is identified by the invitation identifier returned by the handshake
// provider when the out-of-band invitation was created.
type Session struct {
	InvitationID string
	ConnectionID string
	Status       Status
	Role         string
	Token        string
	Created      int64
}
