// Command desktop is a native window client for a running snake server.
// It replays the server's rendered frames with ebiten and forwards keys and
// mouse swipes over the session WebSocket.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/input"
	"github.com/wricardo/canvas-snake/game/render"
	"github.com/wricardo/canvas-snake/game/service"
	"github.com/wricardo/canvas-snake/game/session"
	transport "github.com/wricardo/canvas-snake/transport/websocket"
)

const (
	headerHeight = 40
	footerHeight = 24
	defaultBoard = engine.DefaultColumns * engine.DefaultCellSize
)

var (
	serverURL  = flag.String("server", "http://localhost:8080", "Snake server base URL")
	configName = flag.String("config", "", "Preset for a new session")
)

// keyBindings maps window keys to the browser key names the server routes
var keyBindings = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyArrowUp, "ArrowUp"},
	{ebiten.KeyArrowDown, "ArrowDown"},
	{ebiten.KeyArrowLeft, "ArrowLeft"},
	{ebiten.KeyArrowRight, "ArrowRight"},
	{ebiten.KeyW, "w"},
	{ebiten.KeyA, "a"},
	{ebiten.KeyS, "s"},
	{ebiten.KeyD, "d"},
	{ebiten.KeySpace, " "},
	{ebiten.KeyEqual, "+"},
	{ebiten.KeyKPAdd, "+"},
	{ebiten.KeyMinus, "-"},
	{ebiten.KeyKPSubtract, "-"},
}

// buttonBindings maps window keys to on-screen control names
var buttonBindings = []struct {
	key    ebiten.Key
	button string
}{
	{ebiten.KeyEnter, "start"},
	{ebiten.KeyP, "pause"},
	{ebiten.KeyBackspace, "reset"},
	{ebiten.KeyR, "restart"},
}

// difficultyBindings maps number keys to the selector's presets
var difficultyBindings = []struct {
	key   ebiten.Key
	value string
}{
	{ebiten.Key1, "5"},
	{ebiten.Key2, "8"},
	{ebiten.Key3, "12"},
	{ebiten.Key4, "18"},
}

// screen adapts an ebiten image to render.Surface
type screen struct {
	img     *ebiten.Image
	offsetY float32
}

func paint(c string) color.Color {
	clr, err := render.ParseColor(c)
	if err != nil {
		return color.RGBA{50, 50, 50, 255}
	}
	return clr
}

func (s *screen) ClearRect(r render.Rect) {
	vector.DrawFilledRect(s.img, float32(r.X), float32(r.Y)+s.offsetY, float32(r.W), float32(r.H), color.Black, false)
}

func (s *screen) FillRect(r render.Rect, p render.Paint) {
	vector.DrawFilledRect(s.img, float32(r.X), float32(r.Y)+s.offsetY, float32(r.W), float32(r.H), paint(p.Color), false)
}

func (s *screen) FillCircle(cx, cy, radius float64, p render.Paint) {
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy)+s.offsetY, float32(radius), paint(p.Color), true)
}

// DrawImage is never reached once the server knows images are unavailable
func (s *screen) DrawImage(img render.Image, r render.Rect) {}

// Game is the desktop client for one session
type Game struct {
	baseURL   string
	sessionID string
	conn      *websocket.Conn
	writeMu   sync.Mutex

	mu        sync.RWMutex
	frame     *session.Frame
	connected bool
	banner    string

	dragging bool
}

// NewGame connects to an existing session, or creates one when sessionID is empty
func NewGame(baseURL, sessionID, config string) (*Game, error) {
	g := &Game{baseURL: strings.TrimSuffix(baseURL, "/"), sessionID: sessionID}

	if g.sessionID == "" {
		info, err := g.createSession(config)
		if err != nil {
			return nil, err
		}
		g.sessionID = info.ID
		log.Printf("Created new session: %s (config: %s)", info.ID, info.ConfigName)
	}

	if err := g.connectWebSocket(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", g.sessionID, err)
	}
	go g.listenWebSocket()

	// No images ship with the desktop client; ask for fallback shapes
	g.send(input.Event{Type: input.EventAssets, Failed: []string{
		string(render.RoleHead), string(render.RoleBody), string(render.RoleFood),
	}})

	return g, nil
}

// createSession creates a new game session
func (g *Game) createSession(config string) (*service.SessionInfo, error) {
	payload, _ := json.Marshal(map[string]string{"config_id": config})

	resp, err := http.Post(g.baseURL+"/api/sessions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("create session: %d %s", resp.StatusCode, apiErr.Error)
	}

	var info service.SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &info, nil
}

// connectWebSocket establishes WebSocket connection
func (g *Game) connectWebSocket() error {
	base, err := url.Parse(g.baseURL)
	if err != nil {
		return err
	}

	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}
	wsURL := url.URL{Scheme: scheme, Host: base.Host, Path: "/ws"}
	q := wsURL.Query()
	q.Set("session", g.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	g.conn = conn
	log.Printf("WebSocket connected for session %s", g.sessionID)
	return nil
}

// listenWebSocket applies frames and events until the connection drops
func (g *Game) listenWebSocket() {
	defer func() {
		g.mu.Lock()
		g.connected = false
		g.mu.Unlock()
		g.conn.Close()
	}()

	for {
		var msg transport.Message
		if err := g.conn.ReadJSON(&msg); err != nil {
			log.Printf("WebSocket read error for %s: %v", g.sessionID, err)
			return
		}

		g.mu.Lock()
		switch msg.Event {
		case transport.EventConnected:
			g.connected = true
		case transport.EventFrame:
			if msg.Frame != nil {
				g.frame = msg.Frame
				if msg.Frame.Status != session.StatusGameOver {
					g.banner = ""
				}
			}
		case transport.EventGameOver:
			g.banner = "GAME OVER - press R to play again"
		case transport.EventError:
			log.Printf("Server error: %v", msg.Data)
		}
		g.mu.Unlock()
	}
}

// send writes one input event to the server
func (g *Game) send(ev input.Event) {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if err := g.conn.WriteJSON(ev); err != nil {
		log.Printf("Failed to send %s event: %v", ev.Type, err)
	}
}

// Update forwards input that happened since the last frame
func (g *Game) Update() error {
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.send(input.Event{Type: input.EventKey, Key: b.name})
		}
	}
	for _, b := range buttonBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.send(input.Event{Type: input.EventButton, Button: b.button})
		}
	}
	for _, b := range difficultyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.send(input.Event{Type: input.EventDifficulty, Value: b.value})
		}
	}

	// Mouse drags stand in for touch swipes
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.dragging = true
		g.send(input.Event{Type: input.EventTouchStart, X: float64(x), Y: float64(y)})
	}
	if g.dragging && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.dragging = false
		g.send(input.Event{Type: input.EventTouchEnd, X: float64(x), Y: float64(y)})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

// Draw replays the latest frame below a stats header
func (g *Game) Draw(dst *ebiten.Image) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	connStatus := "offline"
	if g.connected {
		connStatus = "WS"
	}

	if g.frame == nil {
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("Session %s [%s] waiting for first frame...", g.sessionID, connStatus), 10, 10)
		return
	}

	stats := g.frame.Stats
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("Session %s [%s]  Score: %d  Speed: %d  Grid: %d",
		g.sessionID, connStatus, stats.Score, stats.Speed, stats.Grid), 10, 6)

	status := g.frame.Message
	if g.banner != "" {
		status = g.banner
	}
	ebitenutil.DebugPrintAt(dst, status, 10, 22)

	render.Replay(&screen{img: dst, offsetY: headerHeight}, g.frame.Commands)

	_, h := g.size()
	ebitenutil.DebugPrintAt(dst, "Arrows/WASD: Turn | Space: Start/Pause | +/-: Speed | 1-4: Difficulty | R: Restart | ESC: Quit", 10, h-footerHeight+4)
}

// size returns the window size for the current board
func (g *Game) size() (int, int) {
	w, h := defaultBoard, defaultBoard
	if g.frame != nil && g.frame.State != nil {
		cell := g.frame.Stats.Grid
		if cell <= 0 {
			cell = engine.DefaultCellSize
		}
		w = g.frame.State.Grid.Columns * cell
		h = g.frame.State.Grid.Rows * cell
	}
	if w < 640 {
		w = 640
	}
	return w, h + headerHeight + footerHeight
}

// Layout returns the game screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.size()
}

func main() {
	flag.Parse()

	sessionID := ""
	if flag.NArg() > 0 {
		sessionID = flag.Arg(0)
	}

	game, err := NewGame(*serverURL, sessionID, *configName)
	if err != nil {
		log.Fatalf("Failed to start client: %v", err)
	}

	w, h := game.size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Snake - " + game.sessionID)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
