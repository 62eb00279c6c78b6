// Package session keeps per-login scratch state for the pairing
// surface: the current partner, a locally selected theme, and the
// prompt-card index. None of it is durable; every fact that matters
// (friendship, theme assignment, history) is re-derived from storage
// on each request.
package session

import (
	"sync"

	"tsunagari/internal/domain"

	"github.com/google/uuid"
)

type State struct {
	ID      string
	Surface domain.Surface
	Handle  string

	// Pairing-surface scratch. SelectedTheme is only a candidate until
	// the first message tagged with it lands in the log.
	Partner       string
	ThemeChoices  []string
	SelectedTheme string
	CardIndex     int
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*State)}
}

// Start creates a fresh session for a logged-in handle. A new session
// always begins at card index 0 with no theme selected.
func (m *Manager) Start(surface domain.Surface, handle string) State {
	st := &State{
		ID:      uuid.NewString(),
		Surface: surface,
		Handle:  handle,
	}
	m.mu.Lock()
	m.sessions[st.ID] = st
	m.mu.Unlock()
	return *st
}

// Get returns a snapshot of the session. Callers get a copy, never the
// stored struct: all writes go through Update under the lock, so a
// reader can not race a concurrent mutation.
func (m *Manager) Get(id string) (State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[id]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Update applies fn to the session under the manager's lock.
func (m *Manager) Update(id string, fn func(*State)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[id]
	if !ok {
		return false
	}
	fn(st)
	return true
}

func (m *Manager) End(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
