package engine

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	GetScore() int
	GetSpeed() int

	// Simulation
	Tick() TickResult
	SetPendingDirection(dir Direction)
	SetSpeed(speed int) int
	AdjustSpeed(delta int) int
	SetRunning(running bool)

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    Rand
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithSeed makes food placement deterministic
func WithSeed(seed uint64) Option {
	return func(e *GameEngine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand replaces the random source used for food placement
func WithRand(rng Rand) Option {
	return func(e *GameEngine) {
		e.rng = rng
	}
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := newEngine(config, opts)
	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with default configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	return newEngine(DefaultConfig(), opts)
}

func newEngine(config *GameConfig, opts []Option) *GameEngine {
	engine := &GameEngine{config: config}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.rng == nil {
		engine.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	engine.state = InitGameStateFromConfig(config, engine.rng)
	return engine
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Reset replaces the game state with a fresh one from the config
func (e *GameEngine) Reset() *GameState {
	e.state = InitGameStateFromConfig(e.config, e.rng)
	return e.state
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetSpeed returns the current tick rate
func (e *GameEngine) GetSpeed() int {
	return e.state.Speed
}

// Tick advances the game by exactly one step
func (e *GameEngine) Tick() TickResult {
	return e.state.Advance(e.rng)
}

// SetPendingDirection records the direction applied at the next tick
func (e *GameEngine) SetPendingDirection(dir Direction) {
	e.state.PendingDirection = dir
}

// SetSpeed sets a clamped tick rate and returns it
func (e *GameEngine) SetSpeed(speed int) int {
	e.state.Speed = ClampSpeed(speed)
	return e.state.Speed
}

// AdjustSpeed changes the tick rate by delta, clamped
func (e *GameEngine) AdjustSpeed(delta int) int {
	return e.SetSpeed(e.state.Speed + delta)
}

// SetRunning mirrors the scheduler's running flag into the state
func (e *GameEngine) SetRunning(running bool) {
	e.state.Running = running
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and resets the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return fmt.Errorf("set config: %w", err)
	}

	e.config = config
	e.state = InitGameStateFromConfig(config, e.rng)
	return nil
}
