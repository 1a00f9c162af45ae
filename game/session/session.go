package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/canvas-snake/game/engine"
)

// ErrSessionClosed is returned when calling into a session whose loop has exited
var ErrSessionClosed = errors.New("session closed")

// Session runs one Controller on its own goroutine. Ticks and external
// calls are serialized through that goroutine.
type Session struct {
	ID         string
	ConfigName string
	CreatedAt  time.Time

	ctrl   *Controller
	calls  chan func(*Controller)
	done   chan struct{}
	cancel context.CancelFunc

	mu             sync.Mutex
	lastAccessedAt time.Time
}

// NewSession wraps ctrl. Call Start or Run to begin processing.
func NewSession(id string, ctrl *Controller) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		ConfigName:     ctrl.Config().Name,
		CreatedAt:      now,
		ctrl:           ctrl,
		calls:          make(chan func(*Controller)),
		done:           make(chan struct{}),
		lastAccessedAt: now,
	}
}

// Start runs the session loop on a new goroutine until ctx is cancelled or Close is called
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.Run(ctx)
}

// Run processes calls and ticks until ctx is cancelled
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			s.ctrl.Pause()
			return
		case fn := <-s.calls:
			fn(s.ctrl)
		case <-s.ctrl.TickChan():
			s.ctrl.Tick()
		}
	}
}

// Close stops a session started with Start and waits for its loop to exit
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

// Done is closed once the session loop has exited
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Do runs fn on the session goroutine and waits for it to finish
func (s *Session) Do(ctx context.Context, fn func(c *Controller)) error {
	finished := make(chan struct{})
	call := func(c *Controller) {
		defer close(finished)
		fn(c)
	}

	select {
	case s.calls <- call:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// fn is running and may write the caller's variables
	<-finished
	return nil
}

// State returns a snapshot of the game state
func (s *Session) State(ctx context.Context) (*engine.GameState, error) {
	var state *engine.GameState
	err := s.Do(ctx, func(c *Controller) {
		state = c.State()
	})
	return state, err
}

// Touch records an access
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAccessedAt = time.Now()
	s.mu.Unlock()
}

// LastAccessedAt returns the time of the latest access
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

func (s *Session) setLastAccessedAt(t time.Time) {
	s.mu.Lock()
	s.lastAccessedAt = t
	s.mu.Unlock()
}
