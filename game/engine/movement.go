package engine

// Rand is the random source used for food placement
type Rand interface {
	Intn(n int) int
}

// placementAttemptsPerCell bounds rejection sampling before falling back to
// enumerating the free cells
const placementAttemptsPerCell = 4

// Advance runs one tick: direction commit, wrapped head step, collision check,
// head insertion and food handling
func (gs *GameState) Advance(rng Rand) TickResult {
	if gs.GameOver || len(gs.Snake) == 0 {
		return TickResult{GameOver: gs.GameOver, Outcome: gs.Outcome}
	}

	if !gs.PendingDirection.IsReverse(gs.Direction) {
		gs.Direction = gs.PendingDirection
	}

	newHead := gs.Grid.Step(gs.Head(), gs.Direction)

	if gs.Occupies(newHead) {
		crash := newHead
		gs.GameOver = true
		gs.Outcome = OutcomeCollision
		gs.CrashPoint = &crash
		gs.Running = false
		return TickResult{GameOver: true, Outcome: OutcomeCollision, Head: newHead}
	}

	gs.Snake = append([]Cell{newHead}, gs.Snake...)
	gs.Ticks++
	result := TickResult{Moved: true, Head: newHead}

	if gs.HasFood && newHead == gs.Food {
		gs.Score++
		result.Ate = true

		if gs.Score%SpeedRampEvery == 0 {
			gs.Speed = ClampSpeed(gs.Speed + 1)
			result.Rescheduled = true
		}

		if !gs.PlaceFood(rng) {
			gs.GameOver = true
			gs.Outcome = OutcomeBoardFull
			gs.Running = false
			result.GameOver = true
			result.Outcome = OutcomeBoardFull
		}
		return result
	}

	gs.Snake = gs.Snake[:len(gs.Snake)-1]
	return result
}

// PlaceFood puts food on a uniformly random cell not covered by the snake.
// It returns false, leaving HasFood unset, when the snake fills the grid.
func (gs *GameState) PlaceFood(rng Rand) bool {
	area := gs.Grid.Area()
	if len(gs.Snake) >= area {
		gs.HasFood = false
		return false
	}

	for attempts := 0; attempts < area*placementAttemptsPerCell; attempts++ {
		pos := Cell{X: rng.Intn(gs.Grid.Columns), Y: rng.Intn(gs.Grid.Rows)}
		if gs.Occupies(pos) {
			continue
		}
		gs.Food = pos
		gs.HasFood = true
		return true
	}

	free := gs.FreeCells()
	if len(free) == 0 {
		gs.HasFood = false
		return false
	}
	gs.Food = free[rng.Intn(len(free))]
	gs.HasFood = true
	return true
}

// FreeCells lists every cell not covered by the snake, row by row
func (gs *GameState) FreeCells() []Cell {
	occupied := make(map[Cell]bool, len(gs.Snake))
	for _, seg := range gs.Snake {
		occupied[seg] = true
	}

	free := make([]Cell, 0, gs.Grid.Area()-len(occupied))
	for y := 0; y < gs.Grid.Rows; y++ {
		for x := 0; x < gs.Grid.Columns; x++ {
			c := Cell{X: x, Y: y}
			if !occupied[c] {
				free = append(free, c)
			}
		}
	}
	return free
}
