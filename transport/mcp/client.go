package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/render"
	"github.com/wricardo/canvas-snake/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Canvas Snake",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Canvas Snake - MCP Interface

This is a thin client that proxies all requests to the REST API server.
Games run in real time on the server: once started, the snake advances on
its own at the current speed (ticks per second) until paused or dead.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get current board and score
- start_game / pause_game: Control ticking
- reset_game: Fresh idle game at the selected difficulty
- restart_game: Reset and start immediately
- turn: Queue a direction (up/down/left/right) for the next tick
- set_speed: Change ticks per second
- set_difficulty: Change difficulty, kept across resets
- list_configs: List available presets
- game_instructions: Rules and controls`),
	)

	c.registerTools()
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID returned by create_session",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Config ID to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Game control
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, score, speed and status",
		InputSchema: sessionSchema(nil),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start or resume ticking. Ignored after game over; use restart_game.",
		InputSchema: sessionSchema(nil),
	}, c.action("start"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pause_game",
		Description: "Pause a running game",
		InputSchema: sessionSchema(nil),
	}, c.action("pause"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Stop and install a fresh game at the selected difficulty",
		InputSchema: sessionSchema(nil),
	}, c.action("reset"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Reset and immediately start a new game",
		InputSchema: sessionSchema(nil),
	}, c.action("restart"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn",
		Description: "Queue a direction for the next tick. Reversing into the body is ignored.",
		InputSchema: sessionSchema(map[string]interface{}{
			"direction": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"up", "down", "left", "right"},
				"description": "Direction to turn",
			},
		}, "direction"),
	}, c.handleTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_speed",
		Description: fmt.Sprintf("Set ticks per second (%d-%d) for the current game", engine.MinSpeed, engine.MaxSpeed),
		InputSchema: sessionSchema(map[string]interface{}{
			"speed": map[string]interface{}{
				"type":        "number",
				"description": "Ticks per second",
			},
		}, "speed"),
	}, c.handleSetSpeed)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_difficulty",
		Description: "Set the difficulty (ticks per second) used now and after every reset",
		InputSchema: sessionSchema(map[string]interface{}{
			"value": map[string]interface{}{
				"type":        "string",
				"description": "Difficulty as a number of ticks per second",
			},
		}, "value"),
	}, c.handleSetDifficulty)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game rules and controls",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

func sessionArg(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	sessionID, _ := arguments(request)["session_id"].(string)
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configName, _ := arguments(request)["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&result, "- %s (Config: %s, Status: %s, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, s.Status, s.Stats.Score, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID+"/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

// action builds a handler for a body-less control endpoint
func (c *Client) action(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, errResult := sessionArg(request)
		if errResult != nil {
			return errResult, nil
		}
		return c.post(ctx, sessionID, name, nil)
	}
}

func (c *Client) handleTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}
	direction, _ := arguments(request)["direction"].(string)
	if direction == "" {
		return mcp.NewToolResultError("direction is required"), nil
	}
	return c.post(ctx, sessionID, "turn", map[string]string{"direction": direction})
}

func (c *Client) handleSetSpeed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}
	speed, ok := arguments(request)["speed"].(float64)
	if !ok {
		return mcp.NewToolResultError("speed must be a number"), nil
	}
	return c.post(ctx, sessionID, "speed", map[string]int{"speed": int(speed)})
}

func (c *Client) handleSetDifficulty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}
	var value string
	switch v := arguments(request)["value"].(type) {
	case string:
		value = v
	case float64:
		value = fmt.Sprintf("%d", int(v))
	}
	return c.post(ctx, sessionID, "difficulty", map[string]string{"value": value})
}

func (c *Client) post(ctx context.Context, sessionID, action string, body interface{}) (*mcp.CallToolResult, error) {
	if body == nil {
		body = map[string]string{}
	}
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/%s", sessionID, action), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(action, &result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&result, "- %s: %s (%dx%d, speed %d)", cfg.ConfigID, cfg.Name, cfg.Columns, cfg.Rows, cfg.Speed)
		if cfg.Description != "" {
			result.WriteString(" - " + cfg.Description)
		}
		result.WriteString("\n")
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`🐍 Canvas Snake - Instructions

GAME OBJECTIVE:
Steer the snake to eat food. Each piece grows the snake by one segment and
scores one point. The game ends when the head runs into the body.
Filling the whole board is a win.

GAME MECHANICS:
• The snake moves one cell per tick; speed is ticks per second (%d-%d)
• Edges wrap: leaving one side re-enters on the opposite side
• Turning straight back into the body is ignored
• Only the latest turn before a tick counts
• Every %d points the speed goes up by one

BOARD LEGEND:
• %s head   %s body   %s food   %s crash point

CONTROLS:
• turn: up, down, left, right
• start_game, pause_game
• reset_game: fresh idle game
• restart_game: fresh running game, also works after game over
• set_speed: current game only
• set_difficulty: current game and every reset

TIPS:
• The game advances while you think. Pause before planning.
• game_state shows the pending direction, which is applied on the next tick.`,
		engine.MinSpeed, engine.MaxSpeed, engine.SpeedRampEvery,
		render.CharHead, render.CharBody, render.CharFood, render.CharCrash)

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nStatus: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Status,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatActionResult(action string, result *service.ActionResult) string {
	var out strings.Builder
	if result.Changed {
		fmt.Fprintf(&out, "%s: ok (status %s)\n", action, result.Status)
	} else {
		fmt.Fprintf(&out, "%s: no change (status %s)\n", action, result.Status)
	}
	if result.Message != "" {
		out.WriteString(result.Message + "\n")
	}
	out.WriteString("\n")
	out.WriteString(formatGameState(result.GameState))
	return out.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil || state.Grid.Area() == 0 {
		return "No game state available"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Score: %d | Speed: %d | Length: %d | Ticks: %d\n",
		state.Score, state.Speed, len(state.Snake), state.Ticks)
	if len(state.Snake) > 0 {
		fmt.Fprintf(&result, "Head: (%d,%d) | Direction: %s | Pending: %s\n",
			state.Head().X, state.Head().Y, state.Direction, state.PendingDirection)
	}
	if state.HasFood {
		fmt.Fprintf(&result, "Food: (%d,%d)\n", state.Food.X, state.Food.Y)
	}
	result.WriteString("\n")
	result.WriteString(drawBoard(state))

	if state.GameOver {
		if state.Outcome == engine.OutcomeBoardFull {
			result.WriteString("\n🎉 BOARD FULL!")
		} else {
			result.WriteString("\n💀 GAME OVER")
		}
	}

	return result.String()
}

// drawBoard rasterizes the state with the same renderer the canvas uses
func drawBoard(state *engine.GameState) string {
	renderer := render.NewRenderer(&engine.GameConfig{})
	board := render.NewTerminal(state.Grid, renderer.CellSize())
	renderer.Draw(board, state)
	if state.CrashPoint != nil {
		board.MarkCrash(*state.CrashPoint)
	}
	return board.String()
}
