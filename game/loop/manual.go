package loop

import (
	"sync"
	"time"
)

// ManualClock hands out tickers that only fire when told to. It lets tests and
// step-by-step tools drive a Scheduler without real time passing.
type ManualClock struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

// ManualTicker is a Ticker created by a ManualClock
type ManualTicker struct {
	Period  time.Duration
	clock   *ManualClock
	ch      chan time.Time
	stopped bool
}

// C returns the tick channel
func (t *ManualTicker) C() <-chan time.Time { return t.ch }

// Stop marks the ticker stopped; later fires are dropped
func (t *ManualTicker) Stop() {
	t.clock.mu.Lock()
	t.stopped = true
	t.clock.mu.Unlock()
}

// Stopped reports whether Stop was called
func (t *ManualTicker) Stopped() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.stopped
}

// NewManualClock creates an empty clock
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Factory returns a TickerFactory bound to the clock
func (c *ManualClock) Factory() TickerFactory {
	return func(period time.Duration) Ticker {
		c.mu.Lock()
		defer c.mu.Unlock()
		t := &ManualTicker{Period: period, clock: c, ch: make(chan time.Time, 1)}
		c.tickers = append(c.tickers, t)
		return t
	}
}

// Tickers returns every ticker created so far, oldest first
func (c *ManualClock) Tickers() []*ManualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*ManualTicker(nil), c.tickers...)
}

// Active returns the newest ticker that has not been stopped, or nil
func (c *ManualClock) Active() *ManualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.tickers) - 1; i >= 0; i-- {
		if !c.tickers[i].stopped {
			return c.tickers[i]
		}
	}
	return nil
}

// Fire delivers one tick on the active ticker. It reports false when no
// ticker is active or a tick is already buffered.
func (c *ManualClock) Fire() bool {
	t := c.Active()
	if t == nil {
		return false
	}
	select {
	case t.ch <- time.Now():
		return true
	default:
		return false
	}
}
