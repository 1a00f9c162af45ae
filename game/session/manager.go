package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/loop"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// HooksFactory builds the controller hooks for a new session
type HooksFactory func(id string) Hooks

// Manager handles game session lifecycle
type Manager struct {
	sessions   map[string]*Session
	hooks      HooksFactory
	engineOpts []engine.Option
	schedOpts  []loop.Option
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
}

// ManagerOption customizes a Manager
type ManagerOption func(*Manager)

// WithHooksFactory installs per-session hooks, e.g. to broadcast frames
func WithHooksFactory(factory HooksFactory) ManagerOption {
	return func(m *Manager) {
		m.hooks = factory
	}
}

// WithEngineOptions passes options to every new engine
func WithEngineOptions(opts ...engine.Option) ManagerOption {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// WithTickerFactory replaces the real ticker in every new session's scheduler
func WithTickerFactory(factory loop.TickerFactory) ManagerOption {
	return func(m *Manager) {
		m.schedOpts = append(m.schedOpts, loop.WithTickerFactory(factory))
	}
}

// NewManager creates a new session manager
func NewManager(opts ...ManagerOption) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create creates and starts a new session with the given ID and configuration
func (m *Manager) Create(id string, config *engine.GameConfig) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	} else if strings.TrimSpace(id) != id {
		return nil, ErrInvalidSessionID
	}

	// Check if session already exists (case-insensitive)
	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config, m.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	var hooks Hooks
	if m.hooks != nil {
		hooks = m.hooks(id)
	}
	schedOpts := append([]loop.Option{loop.WithSpeedHook(func(speed int) {
		log.Printf("[TICK] session %s speed %d", id, speed)
	})}, m.schedOpts...)

	ctrl := NewController(eng, WithHooks(hooks), WithSchedulerOptions(schedOpts...))
	session := NewSession(id, ctrl)
	session.Start(m.ctx)

	m.sessions[strings.ToLower(id)] = session
	log.Printf("[SESSION] created %s (%s)", id, config.Name)

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete stops and removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	lowerID := strings.ToLower(id)
	session, exists := m.sessions[lowerID]
	if exists {
		delete(m.sessions, lowerID)
	}
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}

	session.Close()
	log.Printf("[SESSION] deleted %s", session.ID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.Touch()
	return nil
}

// CleanupExpiredSessions stops and removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*Session
	for id, session := range m.sessions {
		if session.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, session)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		log.Printf("[SESSION] cleaned up %d idle sessions", len(expired))
	}
	return len(expired)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops every session
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, session := range m.sessions {
		sessions = append(sessions, session)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	m.cancel()
	for _, session := range sessions {
		<-session.Done()
	}
}

// generateSessionID generates a random unused 4-character session ID.
// Callers must hold m.mu.
func (m *Manager) generateSessionID() string {
	// Generate 2 random bytes (4 hex characters)
	bytes := make([]byte, 2)
	for {
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if !m.sessionExists(id) {
			return id
		}
	}
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
