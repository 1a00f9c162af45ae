// Command analyze prints quick, human-readable heuristics about the presets in
// the project's configs directory. It summarizes board and canvas dimensions,
// the speed ramp from the starting tick rate to the cap, and highlights
// presets whose board or pace is likely to make for an unpleasant game.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wricardo/canvas-snake/game/config"
	"github.com/wricardo/canvas-snake/game/engine"
)

const (
	// Widest canvas that still fits a phone held in landscape
	mobileCanvasWidth = 800

	// Crossing the board faster than this leaves little time to react
	minCrossing = 1500 * time.Millisecond
)

// Milestone is the tick rate reached after eating a number of foods
type Milestone struct {
	Score  int
	Speed  int
	Period time.Duration
}

// Analysis summarizes one preset
type Analysis struct {
	ConfigID       string
	Name           string
	Columns, Rows  int
	CanvasW        int
	CanvasH        int
	StartSpeed     int
	MaxScore       int
	FoodsToMax     int
	Ramp           []Milestone
	StartCrossing  time.Duration
	Warnings       []string
}

func main() {
	dir := flag.String("dir", "configs", "Directory containing game configurations")
	flag.Parse()

	manager, err := config.NewManager(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, info := range infos {
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Printf("\n=== %s ===\nError loading config: %v\n", info.Filename, err)
			continue
		}
		fmt.Printf("\n=== Analyzing %s ===\n", info.Filename)
		printAnalysis(os.Stdout, analyzeConfig(info.ConfigID, cfg))
	}
}

// analyzeConfig computes the ramp and warnings for cfg
func analyzeConfig(id string, cfg *engine.GameConfig) Analysis {
	filled := cfg.WithDefaults()
	grid := filled.Grid()
	start := engine.ClampSpeed(filled.Speed)

	a := Analysis{
		ConfigID:   id,
		Name:       filled.Name,
		Columns:    grid.Columns,
		Rows:       grid.Rows,
		CanvasW:    grid.Columns * filled.CellSize,
		CanvasH:    grid.Rows * filled.CellSize,
		StartSpeed: start,
		// The snake starts with one segment and must fill every other cell
		MaxScore:   grid.Area() - 1,
		FoodsToMax: engine.FoodsToMaxSpeed(start),
	}

	widest := grid.Columns
	if grid.Rows > widest {
		widest = grid.Rows
	}
	a.StartCrossing = time.Duration(widest) * engine.Period(start)

	a.Ramp = append(a.Ramp, Milestone{Score: 0, Speed: start, Period: engine.Period(start)})
	for speed := start + 1; speed <= engine.MaxSpeed; speed++ {
		score := (speed - start) * engine.SpeedRampEvery
		if score > a.MaxScore {
			break
		}
		a.Ramp = append(a.Ramp, Milestone{Score: score, Speed: speed, Period: engine.Period(speed)})
	}

	if a.CanvasW > mobileCanvasWidth {
		a.Warnings = append(a.Warnings, fmt.Sprintf("canvas is %dpx wide, wider than %dpx mobile screens", a.CanvasW, mobileCanvasWidth))
	}
	if a.StartCrossing < minCrossing {
		a.Warnings = append(a.Warnings, fmt.Sprintf("snake crosses the board in %v at the starting speed", a.StartCrossing))
	}
	if a.FoodsToMax > a.MaxScore {
		a.Warnings = append(a.Warnings, fmt.Sprintf("ramp tops out at speed %d before the board fills", a.Ramp[len(a.Ramp)-1].Speed))
	}
	if filled.Assets.Head == "" && filled.Assets.Body == "" && filled.Assets.Food == "" {
		a.Warnings = append(a.Warnings, "no images configured; only fallback shapes will be drawn")
	}

	return a
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s (%s)\n", a.Name, a.ConfigID)
	fmt.Fprintf(w, "Board: %d x %d cells, canvas %dx%dpx\n", a.Columns, a.Rows, a.CanvasW, a.CanvasH)
	fmt.Fprintf(w, "Start Speed: %d ticks/s (%v per tick)\n", a.StartSpeed, engine.Period(a.StartSpeed))
	fmt.Fprintf(w, "Max Score: %d\n", a.MaxScore)
	fmt.Fprintf(w, "Foods to max speed: %d\n", a.FoodsToMax)

	fmt.Fprintf(w, "Speed ramp:\n")
	for i, m := range a.Ramp {
		if i >= 6 && i < len(a.Ramp)-1 {
			// Show the first few steps and the last one
			if i == 6 {
				fmt.Fprintf(w, "   ... %d more steps\n", len(a.Ramp)-7)
			}
			continue
		}
		fmt.Fprintf(w, "   score %3d -> speed %2d (%v)\n", m.Score, m.Speed, m.Period)
	}

	if len(a.Warnings) == 0 {
		fmt.Fprintf(w, "✅ No issues found\n")
		return
	}
	for _, warning := range a.Warnings {
		fmt.Fprintf(w, "⚠️  WARNING: %s\n", warning)
	}
}
