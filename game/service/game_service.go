package service

import (
	"context"

	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/input"
	"github.com/wricardo/canvas-snake/game/session"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Control
	Start(ctx context.Context, sessionID string) (*ActionResult, error)
	Pause(ctx context.Context, sessionID string) (*ActionResult, error)
	Reset(ctx context.Context, sessionID string) (*ActionResult, error)
	Restart(ctx context.Context, sessionID string) (*ActionResult, error)
	Turn(ctx context.Context, sessionID, direction string) (*ActionResult, error)
	SetSpeed(ctx context.Context, sessionID string, speed int) (*ActionResult, error)
	SetDifficulty(ctx context.Context, sessionID, value string) (*ActionResult, error)
	HandleInput(ctx context.Context, sessionID string, ev input.Event) (*InputResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetFrame(ctx context.Context, sessionID string) (*session.Frame, error)
	Redraw(ctx context.Context, sessionID string) (*session.Frame, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*session.Session, error)
	Get(id string) (*session.Session, error)
	List() []*session.Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}
