package loop

import (
	"time"

	"github.com/wricardo/canvas-snake/game/engine"
)

// Ticker delivers ticks on C until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a ticker firing every period
type TickerFactory func(period time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker
func NewTimeTicker(period time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(period)}
}

// Scheduler drives game ticks at the current speed. At most one ticker is
// alive at a time. It is not safe for concurrent use; the owning session
// goroutine calls every method.
type Scheduler struct {
	speed     int
	running   bool
	ticker    Ticker
	newTicker TickerFactory
	onSpeed   func(speed int)
}

// Option customizes a Scheduler
type Option func(*Scheduler)

// WithTickerFactory replaces time.NewTicker
func WithTickerFactory(factory TickerFactory) Option {
	return func(s *Scheduler) {
		s.newTicker = factory
	}
}

// WithSpeedHook registers a callback invoked whenever the speed is recorded
func WithSpeedHook(fn func(speed int)) Option {
	return func(s *Scheduler) {
		s.onSpeed = fn
	}
}

// NewScheduler creates a stopped scheduler at the given speed
func NewScheduler(speed int, opts ...Option) *Scheduler {
	s := &Scheduler{
		speed:     engine.ClampSpeed(speed),
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins ticking. It returns false and does nothing if already running.
func (s *Scheduler) Start() bool {
	if s.running {
		return false
	}
	s.running = true
	s.ticker = s.newTicker(s.Period())
	return true
}

// Pause stops ticking and reports whether the scheduler was running
func (s *Scheduler) Pause() bool {
	was := s.running
	s.running = false
	s.stop()
	return was
}

// Reschedule records a new speed and, when running, replaces the ticker
// with one at the new period. The old ticker is stopped first.
func (s *Scheduler) Reschedule(speed int) {
	s.speed = engine.ClampSpeed(speed)
	if s.running {
		s.stop()
		s.ticker = s.newTicker(s.Period())
	}
	if s.onSpeed != nil {
		s.onSpeed(s.speed)
	}
}

// C returns the active tick channel, or nil when stopped. Receiving from a
// nil channel blocks forever, so a select never sees ticks from a dropped ticker.
func (s *Scheduler) C() <-chan time.Time {
	if !s.running || s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

// Running reports whether ticks are being delivered
func (s *Scheduler) Running() bool {
	return s.running
}

// Speed returns the recorded tick rate
func (s *Scheduler) Speed() int {
	return s.speed
}

// Period returns the tick interval for the recorded speed
func (s *Scheduler) Period() time.Duration {
	return engine.Period(s.speed)
}

func (s *Scheduler) stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}
