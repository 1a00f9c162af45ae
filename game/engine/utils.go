package engine

import "time"

// Period returns the time between ticks at the given speed
func Period(speed int) time.Duration {
	return time.Second / time.Duration(ClampSpeed(speed))
}

// WrappedDistance calculates the Manhattan distance between two cells on a torus
func WrappedDistance(grid Grid, from, to Cell) int {
	dx := abs(from.X - to.X)
	if alt := grid.Columns - dx; alt < dx {
		dx = alt
	}
	dy := abs(from.Y - to.Y)
	if alt := grid.Rows - dy; alt < dy {
		dy = alt
	}
	return dx + dy
}

// FoodsToMaxSpeed returns how many foods a snake must eat, starting at speed,
// before the ramp reaches MaxSpeed
func FoodsToMaxSpeed(speed int) int {
	steps := MaxSpeed - ClampSpeed(speed)
	return steps * SpeedRampEvery
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
