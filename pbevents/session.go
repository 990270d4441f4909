package pbevents

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const sessionCacheKey = "session"

// SessionManager tracks the current session id with a sliding inactivity timeout. Each
// call to SessionID counts as activity: if the previous session has been idle longer than
// the timeout, a fresh session id is generated; either way the idle clock restarts from
// now. It is safe for concurrent use.
type SessionManager struct {
	sessions *cache.Cache
	timeout  time.Duration
}

// NewSessionManager creates a SessionManager with the given inactivity timeout. A
// nonpositive timeout is replaced with DefaultSessionTimeout.
func NewSessionManager(timeout time.Duration) *SessionManager {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	// No janitor goroutine: expiry is checked lazily on access, which is all the sliding
	// window needs.
	return &SessionManager{
		sessions: cache.New(timeout, 0),
		timeout:  timeout,
	}
}

// SessionID returns the current session id, rotating it first if the session has expired,
// and resets the inactivity window.
func (m *SessionManager) SessionID() string {
	if v, found := m.sessions.Get(sessionCacheKey); found {
		id := v.(string)
		m.sessions.Set(sessionCacheKey, id, m.timeout)
		return id
	}
	id := uuid.NewString()
	m.sessions.Set(sessionCacheKey, id, m.timeout)
	return id
}

// EndSession expires the current session immediately, so the next SessionID call starts a
// new one.
func (m *SessionManager) EndSession() {
	m.sessions.Delete(sessionCacheKey)
}
