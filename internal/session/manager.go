// Package session tracks authenticated user sessions. A session carries the
// opaque backend token, the user's dashboard editor draft and the live chart
// binders of the currently open dashboard.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waterwatch/dashboard/internal/chart"
	"github.com/waterwatch/dashboard/internal/dashboard"
)

// MaxSessions limits concurrent sessions to bound memory use.
const MaxSessions = 500

// State holds everything scoped to one logged-in user.
type State struct {
	ID           string
	Token        string // opaque bearer token, forwarded verbatim
	UserID       int64
	UserName     string
	Editor       *dashboard.Editor
	LastAccessed time.Time

	mu      sync.Mutex
	binders map[string]*chart.Binder // keyed by panel id
}

// Binder returns the live binder for a panel, or nil.
func (s *State) Binder(panelID string) *chart.Binder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binders[panelID]
}

// PutBinder registers a binder for a panel, closing any previous one so
// its timer cannot keep running against stale settings.
func (s *State) PutBinder(panelID string, b *chart.Binder) {
	s.mu.Lock()
	old := s.binders[panelID]
	s.binders[panelID] = b
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

// DropBinder closes and removes the binder of a deleted panel.
func (s *State) DropBinder(panelID string) {
	s.mu.Lock()
	b := s.binders[panelID]
	delete(s.binders, panelID)
	s.mu.Unlock()
	if b != nil {
		b.Close()
	}
}

// CloseBinders tears down every live binder. Called on logout and expiry.
func (s *State) CloseBinders() {
	s.mu.Lock()
	binders := s.binders
	s.binders = make(map[string]*chart.Binder)
	s.mu.Unlock()
	for _, b := range binders {
		b.Close()
	}
}

// Manager handles active user sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*State)}
}

// Start creates a session for a freshly authenticated user.
func (m *Manager) Start(token string, userID int64, userName string) *State {
	state := &State{
		ID:           uuid.New().String(),
		Token:        token,
		UserID:       userID,
		UserName:     userName,
		Editor:       dashboard.NewEditor(),
		LastAccessed: time.Now(),
		binders:      make(map[string]*chart.Binder),
	}

	m.mu.Lock()
	if len(m.sessions) >= MaxSessions {
		m.evictOldestLocked()
	}
	m.sessions[state.ID] = state
	m.mu.Unlock()
	return state
}

// Get returns a session by id and touches its access time.
func (m *Manager) Get(id string) (*State, bool) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		m.mu.Lock()
		state.LastAccessed = time.Now()
		m.mu.Unlock()
	}
	return state, ok
}

// End removes a session and stops its pollers.
func (m *Manager) End(id string) {
	m.mu.Lock()
	state, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		state.CloseBinders()
	}
}

// CleanupExpired removes sessions idle longer than maxAge, stopping their
// pollers so no timer outlives its session.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*State
	for id, state := range m.sessions {
		if state.LastAccessed.Before(cutoff) {
			expired = append(expired, state)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, state := range expired {
		state.CloseBinders()
	}
	return len(expired)
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// evictOldestLocked drops the least recently used session. Caller holds the
// write lock.
func (m *Manager) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, state := range m.sessions {
		if oldestID == "" || state.LastAccessed.Before(oldest) {
			oldestID = id
			oldest = state.LastAccessed
		}
	}
	if oldestID != "" {
		if state, ok := m.sessions[oldestID]; ok {
			delete(m.sessions, oldestID)
			go state.CloseBinders()
		}
	}
}
