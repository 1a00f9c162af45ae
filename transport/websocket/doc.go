// Package websocket provides WebSocket transport for the canvas Snake game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Frame streaming after every tick and state change
//   - Inbound input events routed to the owning session
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub tracks clients per session. Each connection runs a read pump
// and a write pump. Broadcasts are queued and delivered by Hub.Run, so the
// session goroutine that produces a frame never waits on a slow socket.
//
// Message Protocol:
//
// Outgoing messages are JSON objects with session_id and event fields:
//   - connected: data holds the client_id
//   - frame: frame holds status, message, stats, state, and canvas commands
//   - game_over: data holds score and outcome
//   - error: data holds the error text
//
// Incoming messages are input.Event objects, for example
// {"type":"key","key":"ArrowUp"} or {"type":"touchend","x":10,"y":80}.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	hub.SetInputHandler(func(ctx context.Context, id string, ev input.Event) error {
//		_, err := gameService.HandleInput(ctx, id, ev)
//		return err
//	})
//	sessions := session.NewManager(session.WithHooksFactory(hub.Hooks))
package websocket
