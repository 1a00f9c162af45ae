package service

import (
	"time"

	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/session"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Status         session.Status     `json:"status"`
	Stats          session.Stats      `json:"stats"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult is the outcome of a control operation on a session
type ActionResult struct {
	Changed   bool              `json:"changed"` // false when the action was a no-op in the current status
	Status    session.Status    `json:"status"`
	Message   string            `json:"message,omitempty"`
	Stats     session.Stats     `json:"stats"`
	GameState *engine.GameState `json:"game_state"`
}

// InputResult reports how a raw input event was routed
type InputResult struct {
	Action    string            `json:"action"`
	Direction string            `json:"direction,omitempty"`
	Status    session.Status    `json:"status"`
	Stats     session.Stats     `json:"stats"`
	GameState *engine.GameState `json:"game_state"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`
	CellSize    int    `json:"cell_size"`
	Speed       int    `json:"speed"`
}
