// Package session runs Snake games.
//
// The session package implements:
//   - Controller, the idle/running/paused/game_over state machine that wires
//     the engine, tick scheduler, input router and renderer together
//   - Session, which owns one Controller on its own goroutine
//   - Manager, thread-safe storage of sessions by short ID with idle cleanup
//
// Lifecycle:
//
// A new game is idle. Start moves idle or paused games to running, Pause
// moves running games to paused, and Reset always returns to idle with a
// fresh board at the selected difficulty. A collision, or a snake that fills
// the board, moves a running game to game_over; only Reset or Restart leave
// that state.
//
// Concurrency:
//
// The Controller is not safe for concurrent use. A Session serializes every
// call made through Do together with the scheduler's ticks, so transports
// can share a game freely:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = sess.Do(ctx, func(c *session.Controller) {
//		c.Turn(engine.Up)
//		c.Start()
//	})
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand, unique within the
// manager. Lookups are case-insensitive.
package session
