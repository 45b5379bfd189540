package session

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diogo/deepchat/internal/models"
)

// Manager owns the in-memory session list and keeps it mirrored to a
// Store. Persistence is best effort: a failed write is logged and the
// in-memory state stays authoritative for the rest of the run.
type Manager struct {
	mu       sync.RWMutex
	sessions []*Session
	activeID int64
	store    *Store
	logger   zerolog.Logger
}

// NewManager loads persisted sessions from store. When none exist a fresh
// session is created so there is always at least one, and it is active.
func NewManager(store *Store, logger zerolog.Logger) (*Manager, error) {
	m := &Manager{store: store, logger: logger}

	if store != nil {
		sessions, err := store.Load()
		if err != nil {
			logger.Warn().Err(err).Msg("could not load sessions, starting fresh")
		}
		m.sessions = sessions
	}

	if len(m.sessions) == 0 {
		m.sessions = []*Session{New()}
		m.persist()
	}
	m.activeID = m.sessions[0].ID
	return m, nil
}

// Create starts a new session, makes it active and places it first.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := New()
	m.sessions = append([]*Session{sess}, m.sessions...)
	m.activeID = sess.ID
	m.persist()
	return sess
}

// Switch makes the session with the given ID active. An unknown ID leaves
// the current selection untouched.
func (m *Manager) Switch(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(id) >= 0 {
		m.activeID = id
	}
}

// Active returns the currently selected session.
func (m *Manager) Active() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(m.activeID); i >= 0 {
		return m.sessions[i]
	}
	return m.sessions[0]
}

// List returns the sessions in display order, newest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Get returns the session with the given ID.
func (m *Manager) Get(id int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(id); i >= 0 {
		return m.sessions[i], nil
	}
	return nil, fmt.Errorf("session not found: %d", id)
}

// Append adds msg to the active session.
func (m *Manager) Append(msg models.Message) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(m.activeID)
	if i < 0 {
		i = 0
	}
	m.sessions[i] = m.sessions[i].Append(msg)
	m.persist()
	return m.sessions[i]
}

// SetLastContent replaces the content of the active session's final
// message. Used to commit the authoritative full text after streaming.
func (m *Manager) SetLastContent(content string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(m.activeID)
	if i < 0 {
		i = 0
	}
	m.sessions[i] = m.sessions[i].SetLastContent(content)
	m.persist()
	return m.sessions[i]
}

// Rename sets the title of the session with the given ID.
func (m *Manager) Rename(id int64, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("session not found: %d", id)
	}
	out := *m.sessions[i]
	out.Title = title
	m.sessions[i] = &out
	m.persist()
	return nil
}

// Delete removes the session with the given ID. Removing the last
// remaining session replaces it with a fresh one so the list is never
// empty; deleting the active session activates the first remaining one.
func (m *Manager) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("session not found: %d", id)
	}

	m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
	if len(m.sessions) == 0 {
		m.sessions = []*Session{New()}
	}
	if m.activeID == id {
		m.activeID = m.sessions[0].ID
	}
	m.persist()
	return nil
}

// Clear discards every session and starts over with a single fresh one.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = []*Session{New()}
	m.activeID = m.sessions[0].ID
	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			m.logger.Warn().Err(err).Msg("could not clear persisted sessions")
		}
	}
	m.persist()
}

// Count returns the number of sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// indexOf must be called with the lock held.
func (m *Manager) indexOf(id int64) int {
	for i, s := range m.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with the lock held.
func (m *Manager) persist() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.sessions); err != nil {
		m.logger.Warn().Err(err).Msg("could not persist sessions")
	}
}
