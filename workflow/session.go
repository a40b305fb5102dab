// ABOUTME: Session identity: a random token generated once at startup.
// ABOUTME: Sent on every request and the channel handshake to correlate server-side state.
package workflow

import "github.com/google/uuid"

// Session is the opaque correlation token for one run of the client.
// It is generated once at startup and never regenerated; a restart begins an
// entirely new session.
type Session struct {
	id string
}

// NewSession generates a fresh 128-bit random session identity.
func NewSession() Session {
	return Session{id: uuid.NewString()}
}

// ID returns the session identifier.
func (s Session) ID() string {
	return s.id
}
