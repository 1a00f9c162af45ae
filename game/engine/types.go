package engine

import "fmt"

const (
	// Speed limits in ticks per second
	MinSpeed     = 2
	MaxSpeed     = 30
	DefaultSpeed = 8

	// Score interval between speed increases
	SpeedRampEvery = 5

	// Validation constants
	MinGridSize     = 5
	MaxGridSize     = 100
	MinCellSize     = 4
	MaxCellSize     = 64
	DefaultColumns  = 20
	DefaultRows     = 20
	DefaultCellSize = 20
)

// Cell is a single addressable grid position
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is a unit step on the grid
type Direction struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

// ParseDirection maps "up", "down", "left" and "right" to a Direction
func ParseDirection(name string) (Direction, bool) {
	switch name {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Direction{}, false
}

// IsReverse reports whether d points exactly opposite to other
func (d Direction) IsReverse(other Direction) bool {
	return d.X == -other.X && d.Y == -other.Y
}

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("(%d,%d)", d.X, d.Y)
}

// Grid is the fixed-size board, addressed by integer cells
type Grid struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// Contains reports whether c lies on the grid
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Columns && c.Y >= 0 && c.Y < g.Rows
}

// Wrap folds c back onto the grid; leaving one edge re-enters the opposite edge
func (g Grid) Wrap(c Cell) Cell {
	return Cell{X: wrap(c.X, g.Columns), Y: wrap(c.Y, g.Rows)}
}

// Step moves c one cell in direction d with toroidal wrap
func (g Grid) Step(c Cell, d Direction) Cell {
	return g.Wrap(Cell{X: c.X + d.X, Y: c.Y + d.Y})
}

// Center returns the starting cell for a fresh snake
func (g Grid) Center() Cell {
	return Cell{X: g.Columns / 2, Y: g.Rows / 2}
}

// Area returns the number of cells on the grid
func (g Grid) Area() int {
	return g.Columns * g.Rows
}

// Outcome describes why a game ended
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCollision Outcome = "collision"
	OutcomeBoardFull Outcome = "board_full"
)

// GameState represents the complete game state
type GameState struct {
	Grid             Grid      `json:"grid"`
	Snake            []Cell    `json:"snake"`
	Direction        Direction `json:"direction"`
	PendingDirection Direction `json:"pending_direction"`
	Food             Cell      `json:"food"`
	HasFood          bool      `json:"has_food"`
	Score            int       `json:"score"`
	Speed            int       `json:"speed"`
	Running          bool      `json:"running"`
	GameOver         bool      `json:"game_over"`
	Outcome          Outcome   `json:"outcome,omitempty"`
	CrashPoint       *Cell     `json:"crash_point,omitempty"`
	Ticks            int       `json:"ticks"`
	ConfigName       string    `json:"config_name"`
}

// Head returns the first snake segment
func (gs *GameState) Head() Cell {
	return gs.Snake[0]
}

// Occupies reports whether any snake segment is on c
func (gs *GameState) Occupies(c Cell) bool {
	for _, seg := range gs.Snake {
		if seg == c {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to other goroutines
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Snake = append([]Cell(nil), gs.Snake...)
	if gs.CrashPoint != nil {
		crash := *gs.CrashPoint
		cp.CrashPoint = &crash
	}
	return &cp
}

// TickResult reports the observable effects of one tick
type TickResult struct {
	Moved       bool    `json:"moved"`
	Ate         bool    `json:"ate"`
	Rescheduled bool    `json:"rescheduled"`
	GameOver    bool    `json:"game_over"`
	Outcome     Outcome `json:"outcome,omitempty"`
	Head        Cell    `json:"head"`
}

// GameConfig represents one difficulty preset loaded from JSON
type GameConfig struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Columns     int     `json:"columns"`
	Rows        int     `json:"rows"`
	CellSize    int     `json:"cell_size"`
	Speed       int     `json:"speed"`
	Assets      Assets  `json:"assets"`
	Palette     Palette `json:"palette"`
	Messages    struct {
		Ready    string `json:"ready"`
		Paused   string `json:"paused"`
		GameOver string `json:"game_over"`
		Victory  string `json:"victory"`
	} `json:"messages"`
}

// Grid returns the board described by the config
func (c *GameConfig) Grid() Grid {
	return Grid{Columns: c.Columns, Rows: c.Rows}
}

// Assets names the images a surface may draw instead of fallback shapes
type Assets struct {
	Head string `json:"head,omitempty"`
	Body string `json:"body,omitempty"`
	Food string `json:"food,omitempty"`
}

// Palette holds the fallback colors used when images are unavailable
type Palette struct {
	Background string `json:"background,omitempty"`
	Food       string `json:"food,omitempty"`
	Head       string `json:"head,omitempty"`
	Body       string `json:"body,omitempty"`
	BodyAlt    string `json:"body_alt,omitempty"`
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
