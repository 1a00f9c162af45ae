// Package api provides HTTP REST API handlers for the snake game.
//
// The api package implements:
//   - Session management endpoints
//   - Game control endpoints (start, pause, reset, restart, turn, speed, difficulty)
//   - Raw input forwarding for keys, buttons, swipes and the difficulty selector
//   - Configuration listing, loading and saving
//   - WebSocket upgrade handling
//   - Static file serving for the browser client
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "easy"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Control:
//   - POST /api/sessions/{id}/start
//   - POST /api/sessions/{id}/pause
//   - POST /api/sessions/{id}/reset
//   - POST /api/sessions/{id}/restart
//   - POST /api/sessions/{id}/turn - {"direction": "up|down|left|right"}
//   - POST /api/sessions/{id}/speed - {"speed": 12}
//   - POST /api/sessions/{id}/difficulty - {"value": 12}
//   - POST /api/sessions/{id}/input - {"type": "key", "key": "ArrowUp"}
//
// Game State:
//   - GET /api/sessions/{id}/state - Engine state
//   - GET /api/sessions/{id}/frame - Rendered canvas commands
//
// Configuration:
//   - GET /api/configs - List available presets
//   - GET /api/configs/{name} - Load one preset
//   - POST /api/configs - Save a preset
//
// Realtime:
//   - GET /ws?session={id} - Frames and game_over events; accepts input events
//
// Usage:
//
//	server := api.NewServer(gameService, hub, api.WithStatic(web.Static()))
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with a status code derived from the error:
// 404 for unknown sessions, 400 for bad directions, difficulties, events and
// configs, 500 otherwise.
//
//	{
//	  "error": "error message"
//	}
package api
