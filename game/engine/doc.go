// Package engine provides the core game logic for the canvas Snake game.
//
// The engine package implements the game mechanics including:
//   - A fixed-size grid addressed by integer cells with toroidal wrap
//   - The snake body, current and pending direction, and reversal filter
//   - Food placement on free cells and growth on consumption
//   - Score tracking and the speed ramp (one tick/second every five foods)
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the current game state,
// while GameConfig defines a difficulty preset loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.SetPendingDirection(engine.Up)
//	result := gameEngine.Tick()
//	if result.GameOver {
//		log.Printf("final score %d", gameEngine.GetScore())
//	}
//
// Game Rules:
//
// Each tick commits the pending direction unless it reverses the current
// one, moves the head one cell (wrapping at the edges), and ends the game if
// the head lands on the body. Eating food grows the snake by one segment and
// scores a point; every fifth point raises the speed until MaxSpeed. When the
// snake covers the whole board there is nowhere to place food and the game
// ends with OutcomeBoardFull.
package engine
