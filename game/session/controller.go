package session

import (
	"fmt"
	"time"

	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/input"
	"github.com/wricardo/canvas-snake/game/loop"
	"github.com/wricardo/canvas-snake/game/render"
)

// Status is the lifecycle state of a game
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusGameOver Status = "game_over"
)

// Stats is what the score panel shows. Grid is the cell size in pixels.
type Stats struct {
	Score int `json:"score"`
	Speed int `json:"speed"`
	Grid  int `json:"grid"`
}

// Display receives stats after every tick, reset and speed change
type Display interface {
	Update(stats Stats)
}

// DisplayFunc adapts a function to Display
type DisplayFunc func(stats Stats)

func (f DisplayFunc) Update(stats Stats) { f(stats) }

// Frame is one rendered view of the game
type Frame struct {
	Status   Status            `json:"status"`
	Message  string            `json:"message,omitempty"`
	Stats    Stats             `json:"stats"`
	State    *engine.GameState `json:"state"`
	Commands []render.Command  `json:"commands"`
}

// Hooks are optional callbacks fired from the goroutine that owns the controller
type Hooks struct {
	Display    Display
	OnGameOver func(score int, outcome engine.Outcome)
	OnFrame    func(frame Frame)
}

// Controller wires the engine, scheduler, input router and renderer into
// the start/pause/reset/restart state machine. It is not safe for concurrent
// use; wrap it in a Session to share it between goroutines.
type Controller struct {
	engine     *engine.GameEngine
	scheduler  *loop.Scheduler
	router     *input.Router
	renderer   *render.Renderer
	recorder   *render.Recorder
	status     Status
	difficulty int
	hooks      Hooks
}

// ControllerOption customizes a Controller
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	hooks     Hooks
	schedOpts []loop.Option
}

// WithHooks installs display, game-over and frame callbacks
func WithHooks(hooks Hooks) ControllerOption {
	return func(o *controllerOptions) {
		o.hooks = hooks
	}
}

// WithSchedulerOptions passes options to the tick scheduler
func WithSchedulerOptions(opts ...loop.Option) ControllerOption {
	return func(o *controllerOptions) {
		o.schedOpts = append(o.schedOpts, opts...)
	}
}

// NewController creates an idle controller around eng
func NewController(eng *engine.GameEngine, opts ...ControllerOption) *Controller {
	var o controllerOptions
	for _, opt := range opts {
		opt(&o)
	}

	config := eng.GetConfig()
	c := &Controller{
		engine:     eng,
		scheduler:  loop.NewScheduler(eng.GetSpeed(), o.schedOpts...),
		router:     input.NewRouter(eng),
		renderer:   render.NewRenderer(config),
		recorder:   render.NewRecorder(),
		status:     StatusIdle,
		difficulty: engine.ClampSpeed(config.Speed),
		hooks:      o.hooks,
	}
	return c
}

// Status returns the lifecycle state
func (c *Controller) Status() Status {
	return c.status
}

// State returns a copy of the current game state
func (c *Controller) State() *engine.GameState {
	return c.engine.GetState().Clone()
}

// Config returns the preset the game was built from
func (c *Controller) Config() *engine.GameConfig {
	return c.engine.GetConfig()
}

// Difficulty returns the speed a reset starts from
func (c *Controller) Difficulty() int {
	return c.difficulty
}

// Stats returns the current score panel values
func (c *Controller) Stats() Stats {
	return Stats{
		Score: c.engine.GetScore(),
		Speed: c.engine.GetSpeed(),
		Grid:  c.renderer.CellSize(),
	}
}

// TickChan returns the scheduler's tick channel, nil while stopped
func (c *Controller) TickChan() <-chan time.Time {
	return c.scheduler.C()
}

// Running reports whether ticks are scheduled
func (c *Controller) Running() bool {
	return c.scheduler.Running()
}

// Start begins ticking from idle or paused. It is ignored once the game is over.
func (c *Controller) Start() bool {
	if c.status == StatusGameOver {
		return false
	}
	if !c.scheduler.Start() {
		return false
	}
	c.status = StatusRunning
	c.engine.SetRunning(true)
	c.publish()
	return true
}

// Pause stops ticking; it is a no-op unless running
func (c *Controller) Pause() bool {
	if !c.scheduler.Pause() {
		return false
	}
	if c.status == StatusRunning {
		c.status = StatusPaused
	}
	c.engine.SetRunning(false)
	c.publish()
	return true
}

// Toggle pauses a running game and starts any other
func (c *Controller) Toggle() bool {
	if c.scheduler.Running() {
		return c.Pause()
	}
	return c.Start()
}

// Reset stops the scheduler and installs a fresh game at the selected difficulty
func (c *Controller) Reset() *engine.GameState {
	c.scheduler.Pause()
	c.engine.Reset()
	c.engine.SetSpeed(c.difficulty)
	c.scheduler.Reschedule(c.difficulty)
	c.status = StatusIdle
	c.publish()
	return c.State()
}

// Restart resets and immediately starts a new game
func (c *Controller) Restart() *engine.GameState {
	c.Reset()
	c.Start()
	return c.State()
}

// Tick advances the game by one step while running
func (c *Controller) Tick() engine.TickResult {
	if c.status != StatusRunning {
		return engine.TickResult{}
	}

	result := c.engine.Tick()
	switch {
	case result.GameOver:
		c.scheduler.Pause()
		c.engine.SetRunning(false)
		c.status = StatusGameOver
	case result.Rescheduled:
		c.scheduler.Reschedule(c.engine.GetSpeed())
	}

	c.publish()
	if result.GameOver && c.hooks.OnGameOver != nil {
		c.hooks.OnGameOver(c.engine.GetScore(), result.Outcome)
	}
	return result
}

// Turn requests a direction for the next tick
func (c *Controller) Turn(dir engine.Direction) {
	c.router.SetPendingDirection(dir)
}

// SetSpeed changes the current tick rate without touching the difficulty
func (c *Controller) SetSpeed(speed int) int {
	speed = c.engine.SetSpeed(speed)
	c.scheduler.Reschedule(speed)
	c.publish()
	return speed
}

// AdjustSpeed changes the current tick rate by delta
func (c *Controller) AdjustSpeed(delta int) int {
	return c.SetSpeed(c.engine.GetSpeed() + delta)
}

// SetDifficulty parses a difficulty value, applies it as the current speed
// and remembers it for later resets
func (c *Controller) SetDifficulty(value string) error {
	speed, err := engine.ParseDifficulty(value)
	if err != nil {
		return err
	}
	c.difficulty = speed
	c.SetSpeed(speed)
	return nil
}

// SetAssets marks images the client failed to load so fallback shapes are drawn
func (c *Controller) SetAssets(failed []string) {
	c.renderer.MarkFailed(failed...)
	c.publish()
}

// HandleEvent routes raw input and applies the resulting command
func (c *Controller) HandleEvent(ev input.Event) (input.Command, error) {
	cmd, err := c.router.Handle(ev)
	if err != nil {
		return cmd, err
	}

	switch cmd.Action {
	case input.ActionToggle:
		c.Toggle()
	case input.ActionSpeedUp:
		c.AdjustSpeed(1)
	case input.ActionSpeedDown:
		c.AdjustSpeed(-1)
	case input.ActionStart:
		c.Start()
	case input.ActionPause:
		c.Pause()
	case input.ActionReset:
		c.Reset()
	case input.ActionRestart:
		c.Restart()
	case input.ActionDifficulty:
		err = c.SetDifficulty(cmd.Value)
	case input.ActionAssets:
		c.SetAssets(cmd.Failed)
	}
	return cmd, err
}

// Frame renders the current state without notifying hooks
func (c *Controller) Frame() Frame {
	state := c.engine.GetState()
	c.renderer.Draw(c.recorder, state)
	return Frame{
		Status:   c.status,
		Message:  c.message(),
		Stats:    c.Stats(),
		State:    state.Clone(),
		Commands: c.recorder.Take(),
	}
}

// Draw renders the current state onto any surface
func (c *Controller) Draw(s render.Surface) {
	c.renderer.Draw(s, c.engine.GetState())
}

// Redraw re-renders and notifies hooks
func (c *Controller) Redraw() Frame {
	return c.publish()
}

func (c *Controller) publish() Frame {
	if c.hooks.Display != nil {
		c.hooks.Display.Update(c.Stats())
	}
	frame := c.Frame()
	if c.hooks.OnFrame != nil {
		c.hooks.OnFrame(frame)
	}
	return frame
}

func (c *Controller) message() string {
	messages := c.engine.GetConfig().Messages
	def := engine.DefaultConfig().Messages
	pick := func(v, fallback string) string {
		if v != "" {
			return v
		}
		return fallback
	}

	switch c.status {
	case StatusIdle:
		return pick(messages.Ready, def.Ready)
	case StatusPaused:
		return pick(messages.Paused, def.Paused)
	case StatusGameOver:
		if c.engine.GetState().Outcome == engine.OutcomeBoardFull {
			return fmt.Sprintf(pick(messages.Victory, def.Victory), c.engine.GetScore())
		}
		return fmt.Sprintf(pick(messages.GameOver, def.GameOver), c.engine.GetScore())
	}
	return ""
}
