package service

import (
	"time"

	"github.com/wricardo/roguebot/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	OwnerID        string            `json:"owner_id"`
	Preset         string            `json:"preset"`
	Title          string            `json:"title"`
	View           string            `json:"view"`
	Map            engine.Coordinate `json:"map"`
	Position       engine.Coordinate `json:"position"`
	Counters       map[string]int    `json:"counters"`
	MapsVisited    int               `json:"maps_visited"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Direction  string       `json:"direction"`
	Moved      bool         `json:"moved"`
	CrossedMap bool         `json:"crossed_map"`
	Tile       string       `json:"tile"`
	Message    string       `json:"message,omitempty"`
	View       string       `json:"view"`
	Session    *SessionInfo `json:"session"`
}

// PresetInfo provides information about a map preset
type PresetInfo struct {
	Filename    string `json:"filename"`
	PresetID    string `json:"preset_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	BookChance  int    `json:"book_chance"`
}
