package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/mux"
	gorillaws "github.com/gorilla/websocket"
	"github.com/wricardo/canvas-snake/game/config"
	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/input"
	"github.com/wricardo/canvas-snake/game/service"
	"github.com/wricardo/canvas-snake/game/session"
	"github.com/wricardo/canvas-snake/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Control
	StartFunc         func(ctx context.Context, sessionID string) (*service.ActionResult, error)
	PauseFunc         func(ctx context.Context, sessionID string) (*service.ActionResult, error)
	ResetFunc         func(ctx context.Context, sessionID string) (*service.ActionResult, error)
	RestartFunc       func(ctx context.Context, sessionID string) (*service.ActionResult, error)
	TurnFunc          func(ctx context.Context, sessionID, direction string) (*service.ActionResult, error)
	SetSpeedFunc      func(ctx context.Context, sessionID string, speed int) (*service.ActionResult, error)
	SetDifficultyFunc func(ctx context.Context, sessionID, value string) (*service.ActionResult, error)
	HandleInputFunc   func(ctx context.Context, sessionID string, ev input.Event) (*service.InputResult, error)

	// Game State
	GetGameStateFunc func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetFrameFunc     func(ctx context.Context, sessionID string) (*session.Frame, error)
	RedrawFunc       func(ctx context.Context, sessionID string) (*session.Frame, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func okResult(status session.Status) *service.ActionResult {
	return &service.ActionResult{
		Changed:   true,
		Status:    status,
		GameState: &engine.GameState{Speed: 8},
	}
}

// Game Control
func (m *MockGameService) Start(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, sessionID)
	}
	return okResult(session.StatusRunning), nil
}

func (m *MockGameService) Pause(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	if m.PauseFunc != nil {
		return m.PauseFunc(ctx, sessionID)
	}
	return okResult(session.StatusPaused), nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return okResult(session.StatusIdle), nil
}

func (m *MockGameService) Restart(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, sessionID)
	}
	return okResult(session.StatusRunning), nil
}

func (m *MockGameService) Turn(ctx context.Context, sessionID, direction string) (*service.ActionResult, error) {
	if m.TurnFunc != nil {
		return m.TurnFunc(ctx, sessionID, direction)
	}
	return okResult(session.StatusRunning), nil
}

func (m *MockGameService) SetSpeed(ctx context.Context, sessionID string, speed int) (*service.ActionResult, error) {
	if m.SetSpeedFunc != nil {
		return m.SetSpeedFunc(ctx, sessionID, speed)
	}
	return okResult(session.StatusRunning), nil
}

func (m *MockGameService) SetDifficulty(ctx context.Context, sessionID, value string) (*service.ActionResult, error) {
	if m.SetDifficultyFunc != nil {
		return m.SetDifficultyFunc(ctx, sessionID, value)
	}
	return okResult(session.StatusIdle), nil
}

func (m *MockGameService) HandleInput(ctx context.Context, sessionID string, ev input.Event) (*service.InputResult, error) {
	if m.HandleInputFunc != nil {
		return m.HandleInputFunc(ctx, sessionID, ev)
	}
	return &service.InputResult{Status: session.StatusRunning}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetFrame(ctx context.Context, sessionID string) (*session.Frame, error) {
	if m.GetFrameFunc != nil {
		return m.GetFrameFunc(ctx, sessionID)
	}
	return &session.Frame{Status: session.StatusIdle}, nil
}

func (m *MockGameService) Redraw(ctx context.Context, sessionID string) (*session.Frame, error) {
	if m.RedrawFunc != nil {
		return m.RedrawFunc(ctx, sessionID)
	}
	return &session.Frame{Status: session.StatusIdle}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{
		Name:        configName,
		Description: "Test config",
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, cfg *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, cfg)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService, opts ...ServerOption) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHub()
	go hub.Run(ctx)
	return NewServer(mockService, hub, opts...)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func notFound(sessionID string) error {
	return fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "" {
						t.Errorf("Expected empty config name, got %s", configName)
					}
					return &service.SessionInfo{
						ID:         "ab12",
						ConfigName: "classic",
						CreatedAt:  time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with config_id",
			requestBody: map[string]string{"config_id": "easy"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "easy" {
						t.Errorf("Expected config 'easy', got %s", configName)
					}
					return &service.SessionInfo{ID: "cd34", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "easy" {
					t.Errorf("Expected config name 'easy', got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Deprecated config_name still accepted",
			requestBody: map[string]string{"config_name": "hard"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "hard" {
						t.Errorf("Expected config 'hard', got %s", configName)
					}
					return &service.SessionInfo{ID: "ef56", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Unknown config",
			requestBody: map[string]string{"config_id": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("config 'nope': %w", config.ErrConfigNotFound)
				}
			},
			expectedStatus: http.StatusBadRequest,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if !strings.Contains(resp["error"], "nope") {
					t.Errorf("Expected config name in error, got %s", resp["error"])
				}
			},
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	sessions := func() []*service.SessionInfo {
		return []*service.SessionInfo{
			{ID: "old1", CreatedAt: now.Add(-3 * time.Hour), LastAccessedAt: now.Add(-time.Minute)},
			{ID: "mid2", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Hour)},
			{ID: "new3", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now},
		}
	}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockGameService)
		expectedStatus int
		expectedOrder  []string
		expectedTotal  float64
	}{
		{
			name:           "Default sorts by last access, newest first",
			setupMock:      func(m *MockGameService) { m.ListSessionsFunc = func(context.Context) ([]*service.SessionInfo, error) { return sessions(), nil } },
			expectedStatus: http.StatusOK,
			expectedOrder:  []string{"new3", "old1", "mid2"},
			expectedTotal:  3,
		},
		{
			name:           "Sort by creation ascending",
			query:          "?sort=created&order=asc",
			setupMock:      func(m *MockGameService) { m.ListSessionsFunc = func(context.Context) ([]*service.SessionInfo, error) { return sessions(), nil } },
			expectedStatus: http.StatusOK,
			expectedOrder:  []string{"old1", "mid2", "new3"},
			expectedTotal:  3,
		},
		{
			name:           "Limit",
			query:          "?sort=created&limit=1",
			setupMock:      func(m *MockGameService) { m.ListSessionsFunc = func(context.Context) ([]*service.SessionInfo, error) { return sessions(), nil } },
			expectedStatus: http.StatusOK,
			expectedOrder:  []string{"new3"},
			expectedTotal:  3,
		},
		{
			name:           "Handle empty session list",
			expectedStatus: http.StatusOK,
			expectedOrder:  []string{},
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return nil, fmt.Errorf("list error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedOrder == nil {
				return
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    float64                `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Count != len(tt.expectedOrder) {
				t.Errorf("Expected count %d, got %d", len(tt.expectedOrder), resp.Count)
			}
			if resp.Total != tt.expectedTotal {
				t.Errorf("Expected total %v, got %v", tt.expectedTotal, resp.Total)
			}
			for i, id := range tt.expectedOrder {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Get existing session",
			sessionID:      "ab12",
			expectedStatus: http.StatusOK,
		},
		{
			name:      "Session not found",
			sessionID: "zz99",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, notFound(sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/sessions/"+tt.sessionID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.sessionID})

			server.handleGetSession(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Code == http.StatusOK {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != tt.sessionID {
					t.Errorf("Expected session ID %s, got %s", tt.sessionID, resp.ID)
				}
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		err            error
		expectedStatus int
	}{
		{"Delete existing session", "ab12", nil, http.StatusOK},
		{"Delete non-existent session", "zz99", notFound("zz99"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				DeleteSessionFunc: func(ctx context.Context, sessionID string) error { return tt.err },
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/"+tt.sessionID, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.err == nil {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["message"] != "Session ab12 deleted" {
					t.Errorf("Unexpected message: %s", resp["message"])
				}
			}
		})
	}
}

// Game Control Tests

func TestLifecycleRoutes(t *testing.T) {
	var called []string
	record := func(name string, status session.Status) func(context.Context, string) (*service.ActionResult, error) {
		return func(ctx context.Context, sessionID string) (*service.ActionResult, error) {
			called = append(called, name+":"+sessionID)
			return okResult(status), nil
		}
	}
	mockService := &MockGameService{
		StartFunc:   record("start", session.StatusRunning),
		PauseFunc:   record("pause", session.StatusPaused),
		ResetFunc:   record("reset", session.StatusIdle),
		RestartFunc: record("restart", session.StatusRunning),
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		action string
		status session.Status
	}{
		{"start", session.StatusRunning},
		{"pause", session.StatusPaused},
		{"reset", session.StatusIdle},
		{"restart", session.StatusRunning},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/"+tt.action, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			var resp service.ActionResult
			parseResponse(t, w, &resp)
			if resp.Status != tt.status || !resp.Changed {
				t.Errorf("Expected changed result with status %s, got %+v", tt.status, resp)
			}
		})
	}

	want := []string{"start:ab12", "pause:ab12", "reset:ab12", "restart:ab12"}
	if strings.Join(called, ",") != strings.Join(want, ",") {
		t.Errorf("Expected calls %v, got %v", want, called)
	}
}

func TestLifecycleRoutes_NotFound(t *testing.T) {
	mockService := &MockGameService{
		StartFunc: func(ctx context.Context, sessionID string) (*service.ActionResult, error) {
			return nil, notFound(sessionID)
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/zz99/start", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestTurn(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name: "Valid turn lowercased",
			body: map[string]string{"direction": "LEFT"},
			setupMock: func(m *MockGameService) {
				m.TurnFunc = func(ctx context.Context, sessionID, direction string) (*service.ActionResult, error) {
					if direction != "left" {
						t.Errorf("Expected direction 'left', got %s", direction)
					}
					return okResult(session.StatusRunning), nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Invalid direction",
			body: map[string]string{"direction": "north"},
			setupMock: func(m *MockGameService) {
				m.TurnFunc = func(ctx context.Context, sessionID, direction string) (*service.ActionResult, error) {
					return nil, fmt.Errorf("%w: %q", service.ErrInvalidDirection, direction)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid request body",
			body:           "up",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/turn", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestSpeed(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedSpeed  int
	}{
		{"Set speed", map[string]int{"speed": 12}, http.StatusOK, 12},
		{"Zero speed is forwarded for clamping", map[string]int{"speed": 0}, http.StatusOK, 0},
		{"Missing speed", map[string]string{}, http.StatusBadRequest, -1},
		{"Non-numeric speed", map[string]string{"speed": "fast"}, http.StatusBadRequest, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := -1
			mockService := &MockGameService{
				SetSpeedFunc: func(ctx context.Context, sessionID string, speed int) (*service.ActionResult, error) {
					got = speed
					return okResult(session.StatusRunning), nil
				},
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/speed", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if got != tt.expectedSpeed {
				t.Errorf("Expected speed %d forwarded, got %d", tt.expectedSpeed, got)
			}
		})
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedValue  string
		expectedStatus int
		expectedSpeed  int
	}{
		{"Number value", `{"value":12}`, "12", http.StatusOK, 12},
		{"String value", `{"value":"18"}`, "18", http.StatusOK, 18},
		{"Clamped value", `{"value":"0"}`, "0", http.StatusOK, engine.MinSpeed},
		{"Rejected value", `{"value":"1.5"}`, "1.5", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			mockService := &MockGameService{
				SetDifficultyFunc: func(ctx context.Context, sessionID, value string) (*service.ActionResult, error) {
					got = value
					speed, err := engine.ParseDifficulty(value)
					if err != nil {
						return nil, err
					}
					result := okResult(session.StatusIdle)
					result.GameState.Speed = speed
					return result, nil
				},
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/sessions/ab12/difficulty", strings.NewReader(tt.body))
			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if got != tt.expectedValue {
				t.Errorf("Expected value %q forwarded, got %q", tt.expectedValue, got)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var result service.ActionResult
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if result.GameState == nil || result.GameState.Speed != tt.expectedSpeed {
				t.Errorf("Expected speed %d, got %+v", tt.expectedSpeed, result.GameState)
			}
		})
	}
}

func TestInput(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name: "Key event",
			body: `{"type":"key","key":"ArrowUp"}`,
			setupMock: func(m *MockGameService) {
				m.HandleInputFunc = func(ctx context.Context, sessionID string, ev input.Event) (*service.InputResult, error) {
					if ev.Type != input.EventKey || ev.Key != "ArrowUp" {
						t.Errorf("Unexpected event %+v", ev)
					}
					return &service.InputResult{Action: "turn", Direction: "up", Status: session.StatusRunning}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Unknown event type",
			body: `{"type":"wave"}`,
			setupMock: func(m *MockGameService) {
				m.HandleInputFunc = func(ctx context.Context, sessionID string, ev input.Event) (*service.InputResult, error) {
					return nil, fmt.Errorf("%w: %s", input.ErrUnknownEvent, ev.Type)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed body",
			body:           `{"type":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/ab12/input", strings.NewReader(tt.body)))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

// Game State Tests

func TestGetGameState(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name: "Get existing game state",
			setupMock: func(m *MockGameService) {
				m.GetGameStateFunc = func(ctx context.Context, sessionID string) (*engine.GameState, error) {
					return &engine.GameState{
						Grid:  engine.Grid{Columns: 20, Rows: 20},
						Snake: []engine.Cell{{X: 10, Y: 10}},
						Score: 3,
						Speed: 11,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Session not found",
			setupMock: func(m *MockGameService) {
				m.GetGameStateFunc = func(ctx context.Context, sessionID string) (*engine.GameState, error) {
					return nil, notFound(sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			tt.setupMock(mockService)

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/sessions/ab12/state", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "ab12"})

			server.handleGetGameState(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Code == http.StatusOK {
				var resp engine.GameState
				parseResponse(t, w, &resp)
				if resp.Score != 3 || resp.Speed != 11 || len(resp.Snake) != 1 {
					t.Errorf("Unexpected state: %+v", resp)
				}
			}
		})
	}
}

func TestGetFrame(t *testing.T) {
	mockService := &MockGameService{
		GetFrameFunc: func(ctx context.Context, sessionID string) (*session.Frame, error) {
			return &session.Frame{
				Status:  session.StatusPaused,
				Message: "Paused",
				Stats:   session.Stats{Score: 2, Speed: 10, Grid: 20},
			}, nil
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/frame", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp session.Frame
	parseResponse(t, w, &resp)
	if resp.Status != session.StatusPaused || resp.Stats.Grid != 20 {
		t.Errorf("Unexpected frame: %+v", resp)
	}
}

// Configuration Tests

func TestListConfigs(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		expectedCount  int
	}{
		{
			name: "List available configs",
			setupMock: func(m *MockGameService) {
				m.ListConfigsFunc = func(ctx context.Context) ([]*service.ConfigInfo, error) {
					return []*service.ConfigInfo{
						{ConfigID: "easy", Name: "Easy"},
						{ConfigID: "hard", Name: "Hard"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.ListConfigsFunc = func(ctx context.Context) ([]*service.ConfigInfo, error) {
					return nil, fmt.Errorf("config error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			tt.setupMock(mockService)

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.handleListConfigs(w, makeRequest("GET", "/api/configs", nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Code == http.StatusOK {
				var resp []*service.ConfigInfo
				parseResponse(t, w, &resp)
				if len(resp) != tt.expectedCount {
					t.Errorf("Expected %d configs, got %d", tt.expectedCount, len(resp))
				}
			}
		})
	}
}

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name           string
		configName     string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:       "Get existing config",
			configName: "easy",
			setupMock: func(m *MockGameService) {
				m.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.GameConfig, error) {
					return &engine.GameConfig{Name: "Easy", Columns: 20, Rows: 20, Speed: 5}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:       "Strip .json extension",
			configName: "hard.json",
			setupMock: func(m *MockGameService) {
				m.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.GameConfig, error) {
					if configName != "hard" {
						t.Errorf("Expected config name 'hard' (without .json), got %s", configName)
					}
					return &engine.GameConfig{Name: "Hard"}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:       "Config not found",
			configName: "nonexistent",
			setupMock: func(m *MockGameService) {
				m.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.GameConfig, error) {
					return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configName)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			tt.setupMock(mockService)

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/configs/"+tt.configName, nil)
			req = mux.SetURLVars(req, map[string]string{"name": tt.configName})

			server.handleGetConfig(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestCreateConfig(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		saveErr        error
		expectedID     string
		expectedStatus int
	}{
		{"Derive id from name", `{"name":"Tiny Board","columns":8,"rows":8,"speed":6}`, nil, "tiny-board", http.StatusCreated},
		{"Explicit id", `{"config_id":"tiny","name":"Tiny"}`, nil, "tiny", http.StatusCreated},
		{"Missing name", `{"columns":8}`, nil, "", http.StatusBadRequest},
		{"Invalid config", `{"name":"Bad","columns":1}`, fmt.Errorf("%w: grid too small", config.ErrInvalidConfig), "bad", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			var gotConfig *engine.GameConfig
			mockService := &MockGameService{
				SaveConfigFunc: func(ctx context.Context, configName string, cfg *engine.GameConfig) error {
					gotID, gotConfig = configName, cfg
					return tt.saveErr
				},
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, httptest.NewRequest("POST", "/api/configs", strings.NewReader(tt.body)))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if gotID != tt.expectedID {
				t.Errorf("Expected config id %q, got %q", tt.expectedID, gotID)
			}
			if tt.expectedStatus == http.StatusCreated && gotConfig.Name == "" {
				t.Error("Expected config body to be forwarded")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	var resp map[string]string
	parseResponse(t, w, &resp)
	if w.Code != http.StatusOK || resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %d %v", w.Code, resp)
	}
}

func TestStaticClient(t *testing.T) {
	static := fstest.MapFS{
		"index.html": {Data: []byte("<canvas id=\"game\"></canvas>")},
	}
	server := setupTestServer(t, &MockGameService{}, WithStatic(static))

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "canvas") {
		t.Errorf("Expected index page, got %s", w.Body.String())
	}

	// API routes win over the file server
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected health route, got %d", w.Code)
	}
}

// WebSocket Tests

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=zz99",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, notFound(sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			server.handleWebSocket(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestWebSocket_ConnectRedraws(t *testing.T) {
	redrawn := make(chan string, 1)
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			// Lookups are case-insensitive; the canonical id is lowercase
			return &service.SessionInfo{ID: strings.ToLower(sessionID)}, nil
		},
		RedrawFunc: func(ctx context.Context, sessionID string) (*session.Frame, error) {
			redrawn <- sessionID
			return &session.Frame{}, nil
		},
	}

	ts := httptest.NewServer(setupTestServer(t, mockService))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=AB12"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	var msg websocket.Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if msg.Event != websocket.EventConnected || msg.SessionID != "ab12" {
		t.Errorf("Expected connected event for ab12, got %+v", msg)
	}

	select {
	case id := <-redrawn:
		if id != "ab12" {
			t.Errorf("Expected redraw for ab12, got %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected initial redraw")
	}
}
