package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/input"
	"github.com/wricardo/canvas-snake/game/session"
)

// ErrInvalidDirection is returned for turn requests that are not up, down, left or right
var ErrInvalidDirection = errors.New("invalid direction")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	config := s.configs.GetDefault()
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			return nil, s.configError(configName, err)
		}
	}

	// Let session manager generate a 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info, err := s.describe(ctx, sess)
	if err != nil {
		return nil, err
	}
	if configName != "" {
		info.ConfigName = configName
	}
	return info, nil
}

// configError lists the available presets when a lookup misses
func (s *gameServiceImpl) configError(configName string, err error) error {
	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr != nil || len(availableConfigs) == 0 {
		return fmt.Errorf("failed to load config %s: %w", configName, err)
	}
	var ids []string
	for _, cfg := range availableConfigs {
		ids = append(ids, cfg.ConfigID)
	}
	return fmt.Errorf("config '%s': %w. Available configs: %v", configName, err, ids)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, sess)
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		info, err := s.describe(ctx, sess)
		if errors.Is(err, session.ErrSessionClosed) {
			// Deleted while listing
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// Start begins or resumes ticking
func (s *gameServiceImpl) Start(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, func(c *session.Controller) (bool, error) {
		return c.Start(), nil
	})
}

// Pause stops ticking
func (s *gameServiceImpl) Pause(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, func(c *session.Controller) (bool, error) {
		return c.Pause(), nil
	})
}

// Reset returns the session to a fresh idle game
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, func(c *session.Controller) (bool, error) {
		c.Reset()
		return true, nil
	})
}

// Restart resets and starts a new game
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, func(c *session.Controller) (bool, error) {
		c.Restart()
		return true, nil
	})
}

// Turn requests a direction for the next tick
func (s *gameServiceImpl) Turn(ctx context.Context, sessionID, direction string) (*ActionResult, error) {
	dir, ok := engine.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("%w: %q. Use up, down, left, or right", ErrInvalidDirection, direction)
	}
	return s.act(ctx, sessionID, func(c *session.Controller) (bool, error) {
		c.Turn(dir)
		return true, nil
	})
}

// SetSpeed sets the current tick rate, clamped to the allowed range
func (s *gameServiceImpl) SetSpeed(ctx context.Context, sessionID string, speed int) (*ActionResult, error) {
	return s.act(ctx, sessionID, func(c *session.Controller) (bool, error) {
		before := c.Stats().Speed
		return c.SetSpeed(speed) != before, nil
	})
}

// SetDifficulty applies a difficulty selector value
func (s *gameServiceImpl) SetDifficulty(ctx context.Context, sessionID, value string) (*ActionResult, error) {
	return s.act(ctx, sessionID, func(c *session.Controller) (bool, error) {
		if err := c.SetDifficulty(value); err != nil {
			return false, err
		}
		return true, nil
	})
}

// HandleInput routes a raw key, button, touch, or selector event
func (s *gameServiceImpl) HandleInput(ctx context.Context, sessionID string, ev input.Event) (*InputResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	var (
		result InputResult
		cmdErr error
	)
	err = sess.Do(ctx, func(c *session.Controller) {
		var cmd input.Command
		cmd, cmdErr = c.HandleEvent(ev)
		result = InputResult{
			Action:    string(cmd.Action),
			Status:    c.Status(),
			Stats:     c.Stats(),
			GameState: c.State(),
		}
		if cmd.Action == input.ActionTurn {
			result.Direction = cmd.Direction.String()
		}
	})
	if err != nil {
		return nil, err
	}
	if cmdErr != nil {
		return nil, cmdErr
	}
	return &result, nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.State(ctx)
}

// GetFrame renders the session's current canvas commands
func (s *gameServiceImpl) GetFrame(ctx context.Context, sessionID string) (*session.Frame, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	var frame session.Frame
	if err := sess.Do(ctx, func(c *session.Controller) {
		frame = c.Frame()
	}); err != nil {
		return nil, err
	}
	return &frame, nil
}

// Redraw renders the current frame and pushes it to the session's hooks
func (s *gameServiceImpl) Redraw(ctx context.Context, sessionID string) (*session.Frame, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	var frame session.Frame
	if err := sess.Do(ctx, func(c *session.Controller) {
		frame = c.Redraw()
	}); err != nil {
		return nil, err
	}
	return &frame, nil
}

// ListConfigs returns available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig stores a new preset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) lookup(sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// act runs fn on the session goroutine and snapshots the result
func (s *gameServiceImpl) act(ctx context.Context, sessionID string, fn func(c *session.Controller) (bool, error)) (*ActionResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	var (
		result ActionResult
		fnErr  error
	)
	err = sess.Do(ctx, func(c *session.Controller) {
		result.Changed, fnErr = fn(c)
		frame := c.Frame()
		result.Status = frame.Status
		result.Message = frame.Message
		result.Stats = frame.Stats
		result.GameState = frame.State
	})
	if err != nil {
		return nil, err
	}
	if fnErr != nil {
		return nil, fnErr
	}
	return &result, nil
}

func (s *gameServiceImpl) describe(ctx context.Context, sess *session.Session) (*SessionInfo, error) {
	info := &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.ConfigName),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
	}
	err := sess.Do(ctx, func(c *session.Controller) {
		info.Status = c.Status()
		info.Stats = c.Stats()
		info.GameState = c.State()
		info.GameConfig = c.Config()
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}
