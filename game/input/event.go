package input

// EventType identifies the kind of raw input carried by an Event
type EventType string

const (
	EventKey        EventType = "key"
	EventButton     EventType = "button"
	EventTouchStart EventType = "touchstart"
	EventTouchEnd   EventType = "touchend"
	EventDifficulty EventType = "difficulty"
	EventAssets     EventType = "assets"
)

// Event is raw platform input as sent by a client
type Event struct {
	Type   EventType `json:"type"`
	Key    string    `json:"key,omitempty"`
	Button string    `json:"button,omitempty"`
	X      float64   `json:"x,omitempty"`
	Y      float64   `json:"y,omitempty"`
	Value  string    `json:"value,omitempty"`
	Failed []string  `json:"failed,omitempty"` // asset names the client could not load
}
