package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidDifficulty is returned when a difficulty value is not an integer
var ErrInvalidDifficulty = errors.New("invalid difficulty")

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid size
	if config.Columns < MinGridSize || config.Columns > MaxGridSize {
		return fmt.Errorf("config validation: columns must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Columns)
	}
	if config.Rows < MinGridSize || config.Rows > MaxGridSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Rows)
	}
	if config.CellSize < MinCellSize || config.CellSize > MaxCellSize {
		return fmt.Errorf("config validation: cell_size must be between %d and %d, got %d", MinCellSize, MaxCellSize, config.CellSize)
	}

	// Validate speed
	if config.Speed < MinSpeed || config.Speed > MaxSpeed {
		return fmt.Errorf("config validation: speed must be between %d and %d, got %d", MinSpeed, MaxSpeed, config.Speed)
	}

	// Validate palette
	colors := map[string]string{
		"background": config.Palette.Background,
		"food":       config.Palette.Food,
		"head":       config.Palette.Head,
		"body":       config.Palette.Body,
		"body_alt":   config.Palette.BodyAlt,
	}
	for key, value := range colors {
		if value != "" && !colorPattern.MatchString(value) {
			return fmt.Errorf("config validation: palette.%s must be #rrggbb or #rrggbbaa, got '%s'", key, value)
		}
	}

	// Validate format strings
	if config.Messages.GameOver != "" && !strings.Contains(config.Messages.GameOver, "%d") {
		return fmt.Errorf("config validation: messages.game_over must contain %%d for the final score")
	}
	if config.Messages.Victory != "" && !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the final score")
	}

	return nil
}

// ClampSpeed bounds a tick rate to [MinSpeed, MaxSpeed]
func ClampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// ParseDifficulty converts user input into a clamped tick rate
func ParseDifficulty(value string) (int, error) {
	speed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidDifficulty, value)
	}
	return ClampSpeed(speed), nil
}

// DefaultConfig returns the built-in classic preset
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "20x20 board at 8 ticks per second",
		Columns:     DefaultColumns,
		Rows:        DefaultRows,
		CellSize:    DefaultCellSize,
		Speed:       DefaultSpeed,
		Assets: Assets{
			Head: "img/head.png",
			Body: "img/body.png",
			Food: "img/food.png",
		},
	}
	config.Messages.Ready = "Press start or space to play"
	config.Messages.Paused = "Paused"
	config.Messages.GameOver = "Game over! Final score: %d"
	config.Messages.Victory = "Board full! Final score: %d"
	return config
}

// WithDefaults fills unset presentation fields from the built-in palette
func (c *GameConfig) WithDefaults() *GameConfig {
	cp := *c
	def := DefaultPalette()
	if cp.Palette.Background == "" {
		cp.Palette.Background = def.Background
	}
	if cp.Palette.Food == "" {
		cp.Palette.Food = def.Food
	}
	if cp.Palette.Head == "" {
		cp.Palette.Head = def.Head
	}
	if cp.Palette.Body == "" {
		cp.Palette.Body = def.Body
	}
	if cp.Palette.BodyAlt == "" {
		cp.Palette.BodyAlt = def.BodyAlt
	}
	if cp.CellSize == 0 {
		cp.CellSize = DefaultCellSize
	}
	return &cp
}

// DefaultPalette returns the fallback colors for shapes drawn without images
func DefaultPalette() Palette {
	return Palette{
		Background: "#ffe6f055",
		Food:       "#ff4d88",
		Head:       "#ff85a2",
		Body:       "#ffb6c1",
		BodyAlt:    "#ff85a2",
	}
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// InitGameStateFromConfig creates a fresh game state: a single-segment snake
// centered on the grid, heading right, with food placed and score zero
func InitGameStateFromConfig(config *GameConfig, rng Rand) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	grid := config.Grid()
	state := &GameState{
		Grid:             grid,
		Snake:            []Cell{grid.Center()},
		Direction:        Right,
		PendingDirection: Right,
		Score:            0,
		Speed:            ClampSpeed(config.Speed),
		ConfigName:       config.Name,
	}
	state.PlaceFood(rng)

	return state
}
