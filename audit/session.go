package audit

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds the per-sign-in session id stamped onto every audit entry.
// The id is created lazily on first use and survives until Reset (sign-out);
// the next sign-in gets a fresh one.
type Session struct {
	mu sync.Mutex
	id string
}

// NewSession returns an empty session; the id materializes on first ID call.
func NewSession() *Session {
	return &Session{}
}

// ID returns the session id, creating it on first use.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s.id
}

// Reset clears the id so the next sign-in starts a new session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
}
