package render

// Op is a recorded drawing operation
type Op string

const (
	OpClearRect  Op = "clearRect"
	OpFillRect   Op = "fillRect"
	OpFillCircle Op = "fillCircle"
	OpDrawImage  Op = "drawImage"
)

// Command is one recorded call, named after the canvas method that replays it
type Command struct {
	Op     Op      `json:"op"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Radius float64 `json:"r,omitempty"`
	Role   Role    `json:"role,omitempty"`
	Color  string  `json:"color,omitempty"`
	Src    string  `json:"src,omitempty"`
}

// Recorder is a Surface that keeps the calls it receives so a remote canvas
// can replay them
type Recorder struct {
	commands []Command
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ClearRect(rect Rect) {
	r.commands = append(r.commands, Command{Op: OpClearRect, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H})
}

func (r *Recorder) FillRect(rect Rect, p Paint) {
	r.commands = append(r.commands, Command{Op: OpFillRect, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Role: p.Role, Color: p.Color})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, p Paint) {
	r.commands = append(r.commands, Command{Op: OpFillCircle, X: cx, Y: cy, Radius: radius, Role: p.Role, Color: p.Color})
}

func (r *Recorder) DrawImage(img Image, rect Rect) {
	r.commands = append(r.commands, Command{Op: OpDrawImage, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Role: img.Role, Src: img.Src})
}

// Commands returns the calls recorded so far
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Take returns the recorded calls and starts a new list
func (r *Recorder) Take() []Command {
	cmds := r.commands
	r.commands = nil
	return cmds
}

// Replay issues cmds against s in order. Unknown ops are skipped.
func Replay(s Surface, cmds []Command) {
	for _, c := range cmds {
		rect := Rect{X: c.X, Y: c.Y, W: c.W, H: c.H}
		switch c.Op {
		case OpClearRect:
			s.ClearRect(rect)
		case OpFillRect:
			s.FillRect(rect, Paint{Role: c.Role, Color: c.Color})
		case OpFillCircle:
			s.FillCircle(c.X, c.Y, c.Radius, Paint{Role: c.Role, Color: c.Color})
		case OpDrawImage:
			s.DrawImage(Image{Role: c.Role, Src: c.Src}, rect)
		}
	}
}
