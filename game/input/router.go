package input

import (
	"errors"
	"fmt"
	"math"

	"github.com/wricardo/canvas-snake/game/engine"
)

// MinSwipeDistance is the travel in pixels a touch must exceed to count as a swipe
const MinSwipeDistance = 30

// ErrUnknownEvent is returned for events with an unrecognized type
var ErrUnknownEvent = errors.New("unknown input event")

// Action is what the session should do in response to input
type Action string

const (
	ActionNone       Action = ""
	ActionTurn       Action = "turn"
	ActionToggle     Action = "toggle"
	ActionSpeedUp    Action = "speed_up"
	ActionSpeedDown  Action = "speed_down"
	ActionStart      Action = "start"
	ActionPause      Action = "pause"
	ActionReset      Action = "reset"
	ActionRestart    Action = "restart"
	ActionDifficulty Action = "difficulty"
	ActionAssets     Action = "assets"
)

// Command is the result of routing one input. Turns are already applied to
// the target by the time a Command is returned.
type Command struct {
	Action    Action
	Direction engine.Direction
	Value     string
	Failed    []string
}

// DirectionSetter receives committed turn requests
type DirectionSetter interface {
	SetPendingDirection(dir engine.Direction)
}

type point struct {
	x, y float64
}

// Router translates keys, buttons and swipes into pending directions and
// session commands
type Router struct {
	target     DirectionSetter
	touchStart *point
}

// NewRouter creates a router feeding target
func NewRouter(target DirectionSetter) *Router {
	return &Router{target: target}
}

// SetPendingDirection is the single entry point for turn requests
func (r *Router) SetPendingDirection(dir engine.Direction) {
	if r.target != nil {
		r.target.SetPendingDirection(dir)
	}
}

// Key routes a browser KeyboardEvent.key name
func (r *Router) Key(key string) Command {
	switch key {
	case "ArrowUp", "w", "W":
		return r.turn(engine.Up)
	case "ArrowDown", "s", "S":
		return r.turn(engine.Down)
	case "ArrowLeft", "a", "A":
		return r.turn(engine.Left)
	case "ArrowRight", "d", "D":
		return r.turn(engine.Right)
	case " ":
		return Command{Action: ActionToggle}
	case "+", "=":
		return Command{Action: ActionSpeedUp}
	case "-", "_":
		return Command{Action: ActionSpeedDown}
	}
	return Command{}
}

// Button routes an on-screen control by name
func (r *Router) Button(name string) Command {
	if dir, ok := engine.ParseDirection(name); ok {
		return r.turn(dir)
	}
	switch name {
	case "start":
		return Command{Action: ActionStart}
	case "pause":
		return Command{Action: ActionPause}
	case "reset":
		return Command{Action: ActionReset}
	case "restart":
		return Command{Action: ActionRestart}
	}
	return Command{}
}

// TouchStart records the start point of a swipe
func (r *Router) TouchStart(x, y float64) {
	r.touchStart = &point{x: x, y: y}
}

// TouchEnd completes a swipe. It is ignored without a preceding TouchStart.
func (r *Router) TouchEnd(x, y float64) Command {
	if r.touchStart == nil {
		return Command{}
	}
	dx := x - r.touchStart.x
	dy := y - r.touchStart.y
	r.touchStart = nil

	dir, ok := InterpretSwipe(dx, dy, MinSwipeDistance)
	if !ok {
		return Command{}
	}
	return r.turn(dir)
}

// Handle dispatches a transport event to the matching router method
func (r *Router) Handle(ev Event) (Command, error) {
	switch ev.Type {
	case EventKey:
		return r.Key(ev.Key), nil
	case EventButton:
		return r.Button(ev.Button), nil
	case EventTouchStart:
		r.TouchStart(ev.X, ev.Y)
		return Command{}, nil
	case EventTouchEnd:
		return r.TouchEnd(ev.X, ev.Y), nil
	case EventDifficulty:
		return Command{Action: ActionDifficulty, Value: ev.Value}, nil
	case EventAssets:
		return Command{Action: ActionAssets, Failed: ev.Failed}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}

func (r *Router) turn(dir engine.Direction) Command {
	r.SetPendingDirection(dir)
	return Command{Action: ActionTurn, Direction: dir}
}

// InterpretSwipe maps a touch displacement to a direction. Horizontal wins
// only when strictly dominant; ties fall to the vertical check.
func InterpretSwipe(dx, dy, minDistance float64) (engine.Direction, bool) {
	ax, ay := math.Abs(dx), math.Abs(dy)
	if ax > ay && ax > minDistance {
		if dx > 0 {
			return engine.Right, true
		}
		return engine.Left, true
	}
	if ay > minDistance {
		if dy > 0 {
			return engine.Down, true
		}
		return engine.Up, true
	}
	return engine.Direction{}, false
}
