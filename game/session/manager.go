package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/roguebot/game/engine"
	"github.com/wricardo/roguebot/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxIDAttempts bounds the retries when a generated ID collides.
const maxIDAttempts = 16

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	seed     func() int64
	now      func() time.Time
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		seed:     func() int64 { return time.Now().UnixNano() },
		now:      time.Now,
	}
}

// Create creates a new session owned by ownerID. An empty id is replaced by
// a generated one. Settings with a non-zero Seed always produce the same
// world; otherwise each session draws a fresh seed.
func (m *Manager) Create(id, ownerID, preset string, settings *engine.Settings) (*service.Session, error) {
	if strings.ContainsAny(id, " /:\t\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = m.seed()
	}
	game, err := engine.NewGame(settings, mathrand.New(mathrand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id, err = m.uniqueSessionID()
		if err != nil {
			return nil, err
		}
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	now := m.now()
	session := &service.Session{
		ID:             id,
		OwnerID:        ownerID,
		Preset:         preset,
		Game:           game,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[strings.ToLower(id)] = session

	return snapshot(session), nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, snapshot(session))
	}

	return result
}

// ListByOwner returns the active sessions started by ownerID
func (m *Manager) ListByOwner(ownerID string) []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*service.Session
	for _, session := range m.sessions {
		if session.OwnerID == ownerID {
			result = append(result, snapshot(session))
		}
	}
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// Touch marks a session as accessed now and returns the new access time
func (m *Manager) Touch(id string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return time.Time{}, ErrSessionNotFound
	}

	session.LastAccessedAt = m.now()
	return session.LastAccessedAt, nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the
// given duration and returns their IDs
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	var removed []string

	for key, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			removed = append(removed, session.ID)
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// uniqueSessionID picks a generated ID not already in use. Callers hold m.mu.
func (m *Manager) uniqueSessionID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := generateSessionID()
		if !m.sessionExists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no free ID after %d attempts", ErrSessionAlreadyExists, maxIDAttempts)
}

// generateSessionID generates a random 4-character session ID
func generateSessionID() string {
	// 2 random bytes, 4 hex characters
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// snapshot copies a session so callers never share the timestamps Touch
// writes. The game itself is shared and guards its own state. Callers hold m.mu.
func snapshot(session *service.Session) *service.Session {
	c := *session
	return &c
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
