// Package mcp provides a Model Context Protocol server for the canvas Snake game.
//
// The server is a thin client: every tool call is proxied to the REST API,
// so agents and browsers share the same sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board, score, speed and direction as text
//   - start_game, pause_game, reset_game, restart_game: lifecycle
//   - turn: queue a direction for the next tick
//   - set_speed, set_difficulty: tick rate control
//   - list_configs: available presets
//   - game_instructions: rules and controls
//
// Boards are drawn with the same renderer that produces canvas frames,
// rasterized onto a render.Terminal.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
