package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wricardo/canvas-snake/game/engine"
	"github.com/wricardo/canvas-snake/game/input"
	"github.com/wricardo/canvas-snake/game/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Time allowed for one inbound event to be applied.
	inputTimeout = 5 * time.Second
)

// Outgoing event names
const (
	EventConnected = "connected"
	EventFrame     = "frame"
	EventGameOver  = "game_over"
	EventError     = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	SessionID string         `json:"session_id"`
	Event     string         `json:"event"`
	Frame     *session.Frame `json:"frame,omitempty"`
	Data      interface{}    `json:"data,omitempty"`
}

// GameOverData is the payload of a game_over event
type GameOverData struct {
	Score   int            `json:"score"`
	Outcome engine.Outcome `json:"outcome"`
}

// InputHandler applies an event received from a client to its session
type InputHandler func(ctx context.Context, sessionID string, ev input.Event) error

// Client represents a WebSocket client
type Client struct {
	ID        string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool
	mu       sync.RWMutex

	// Outbound messages queued for delivery
	broadcast chan *Message

	inputMu sync.RWMutex
	onInput InputHandler
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:  make(map[string]map[*Client]bool),
		broadcast: make(chan *Message, 256),
	}
}

// SetInputHandler installs the callback for inbound client events
func (h *Hub) SetInputHandler(handler InputHandler) {
	h.inputMu.Lock()
	h.onInput = handler
	h.inputMu.Unlock()
}

// Run starts the hub's event loop until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	client := &Client{
		ID:        uuid.NewString(),
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	h.registerClient(client)

	go client.writePump()
	go client.readPump()

	client.sendMessage(&Message{SessionID: sessionID, Event: EventConnected, Data: map[string]string{"client_id": client.ID}})
}

// BroadcastFrame queues a rendered frame for every client of a session.
// It never blocks; frames are dropped when the queue is full.
func (h *Hub) BroadcastFrame(sessionID string, frame session.Frame) {
	h.enqueue(&Message{SessionID: sessionID, Event: EventFrame, Frame: &frame})
}

// BroadcastGameOver notifies a session's clients that the game ended.
// It skips the shared queue and writes to each client's buffer directly,
// so a busy queue cannot drop it.
func (h *Hub) BroadcastGameOver(sessionID string, score int, outcome engine.Outcome) {
	h.broadcastMessage(&Message{SessionID: sessionID, Event: EventGameOver, Data: GameOverData{Score: score, Outcome: outcome}})
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.enqueue(&Message{SessionID: sessionID, Event: event, Data: data})
}

// Hooks returns controller hooks that stream a session to its clients
func (h *Hub) Hooks(sessionID string) session.Hooks {
	return session.Hooks{
		OnFrame: func(f session.Frame) { h.BroadcastFrame(sessionID, f) },
		OnGameOver: func(score int, outcome engine.Outcome) {
			h.BroadcastGameOver(sessionID, score, outcome)
		},
	}
}

// ClientCount returns the number of clients watching a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("[WS] broadcast queue full, dropping %s for session %s", message.Event, message.SessionID)
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("[WS] client %s registered for session %s (total clients: %d)",
		client.ID, client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)

	// Clean up empty sessions
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	log.Printf("[WS] client %s unregistered from session %s (remaining clients: %d)",
		client.ID, client.sessionID, len(clients))
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[message.SessionID] {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.removeLocked(client)
		}
	}
}

// sendMessage writes directly to one client without going through the hub
func (c *Client) sendMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] failed to marshal message: %v", err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.sessions[c.sessionID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump decodes input events from the connection and applies them
func (c *Client) readPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] read error: %v", err)
			}
			break
		}

		var ev input.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.sendMessage(&Message{SessionID: c.sessionID, Event: EventError, Data: "invalid event: " + err.Error()})
			continue
		}

		c.hub.inputMu.RLock()
		handler := c.hub.onInput
		c.hub.inputMu.RUnlock()
		if handler == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), inputTimeout)
		err = handler(ctx, c.sessionID, ev)
		cancel()
		if err != nil {
			c.sendMessage(&Message{SessionID: c.sessionID, Event: EventError, Data: err.Error()})
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame so the client can parse each message
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
