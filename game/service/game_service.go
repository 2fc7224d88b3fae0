package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/roguebot/game/engine"
)

var (
	// ErrNotOwner is returned when someone other than the player who started
	// a session tries to drive it.
	ErrNotOwner = errors.New("session belongs to another player")
	// ErrOwnerRequired is returned when a session is started anonymously.
	ErrOwnerRequired = errors.New("owner ID is required")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	StartGame(ctx context.Context, ownerID, preset string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	EndSession(ctx context.Context, sessionID, ownerID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, ownerID, direction string) (*MoveResult, error)

	// Presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
}

// SessionManager defines session storage operations. Sessions it returns are
// copies; Touch is the only writer of LastAccessedAt.
type SessionManager interface {
	Create(id, ownerID, preset string, settings *engine.Settings) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	ListByOwner(ownerID string) []*Session
	Delete(id string) error
	Touch(id string) (time.Time, error)
}

// ConfigManager handles preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.Settings, error)
	ListConfigs() ([]*PresetInfo, error)
	GetDefault() *engine.Settings
}

// Observer is told about every new view of a session.
type Observer interface {
	SessionUpdated(sessionID string, info *SessionInfo)
	SessionEnded(sessionID string)
}

// Session represents an active game session
type Session struct {
	ID             string
	OwnerID        string
	Preset         string
	Game           *engine.Game
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
