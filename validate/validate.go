// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory. It checks:
//   - JSON structure, rejecting unknown fields
//   - Board, cell size and speed ranges
//   - Palette colors (#rrggbb or #rrggbbaa)
//   - Required message keys and the %d score placeholder
//   - Unique preset names across files
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/canvas-snake/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Name   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single configuration JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}
	result.Name = config.Name

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "config validation: "))
	}

	// Validate messages
	requiredMessages := map[string]string{
		"ready":     config.Messages.Ready,
		"paused":    config.Messages.Paused,
		"game_over": config.Messages.GameOver,
		"victory":   config.Messages.Victory,
	}
	for _, key := range []string{"ready", "paused", "game_over", "victory"} {
		if strings.TrimSpace(requiredMessages[key]) == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required message: %s", key))
		}
	}

	// Add informational data
	if result.Valid {
		filled := config.WithDefaults()
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d (%d cells)", config.Columns, config.Rows, config.Columns*config.Rows))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Canvas: %dx%dpx", config.Columns*filled.CellSize, config.Rows*filled.CellSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Speed: %d ticks/s, max after %d foods", config.Speed, engine.FoodsToMaxSpeed(config.Speed)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Images: %s", describeAssets(config.Assets)))
	}

	return result
}

// describeAssets lists which roles have images configured
func describeAssets(a engine.Assets) string {
	var roles []string
	if a.Head != "" {
		roles = append(roles, "head")
	}
	if a.Body != "" {
		roles = append(roles, "body")
	}
	if a.Food != "" {
		roles = append(roles, "food")
	}
	if len(roles) == 0 {
		return "none (fallback shapes)"
	}
	return strings.Join(roles, ", ")
}

// checkDuplicateNames marks results that share a preset name with an earlier file
func checkDuplicateNames(results []ValidationResult) {
	seen := make(map[string]string)
	for i := range results {
		name := strings.ToLower(results[i].Name)
		if name == "" {
			continue
		}
		if first, exists := seen[name]; exists {
			results[i].Valid = false
			results[i].Errors = append(results[i].Errors, fmt.Sprintf("Duplicate name %q (also used by %s)", results[i].Name, first))
			continue
		}
		seen[name] = results[i].File
	}
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := flag.String("dir", "../configs", "Directory containing game configurations")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateConfig(file))
	}
	checkDuplicateNames(results)

	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
