// Package config provides game preset management for the canvas Snake game.
//
// The config package handles:
//   - Loading presets from JSON files in a config directory
//   - Validation through engine.ValidateGameConfig
//   - Default preset selection with a built-in fallback
//   - Preset discovery and listing
//
// Configuration Format:
//
// Each preset is a JSON file whose base name is its ID. A preset defines the
// grid (columns, rows, cell_size), the starting difficulty as ticks per
// second, optional image assets with fallback palette colors, and the
// messages shown when idle, paused, and at the end of a game.
//
// Available Configurations:
//   - classic: 20x20 at 8 ticks per second
//   - easy: 20x20 at 5 ticks per second
//   - hard: 20x20 at 12 ticks per second
//   - expert: 15x15 at 18 ticks per second
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("easy")
//	if errors.Is(err, config.ErrConfigNotFound) {
//		gameConfig = manager.GetDefault()
//	}
package config
