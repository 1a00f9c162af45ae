package render

import (
	"github.com/wricardo/canvas-snake/game/engine"
)

// Role names what a drawing primitive depicts
type Role string

const (
	RoleBackground Role = "background"
	RoleFood       Role = "food"
	RoleHead       Role = "head"
	RoleBody       Role = "body"
)

// Rect is a pixel rectangle
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Paint is a fill color tagged with the role it colors
type Paint struct {
	Role  Role   `json:"role"`
	Color string `json:"color"`
}

// Image is an asset reference tagged with the role it depicts
type Image struct {
	Role Role   `json:"role"`
	Src  string `json:"src"`
}

// Surface is a 2D drawing target
type Surface interface {
	ClearRect(r Rect)
	FillRect(r Rect, p Paint)
	FillCircle(cx, cy, radius float64, p Paint)
	DrawImage(img Image, r Rect)
}

// Renderer draws a game state onto a Surface. Each image is drawn when it is
// configured and has not been reported as failed; otherwise a fallback shape
// in the palette color is used.
type Renderer struct {
	cellSize float64
	palette  engine.Palette
	assets   engine.Assets
	failed   map[Role]bool
}

// NewRenderer creates a renderer for the given preset
func NewRenderer(config *engine.GameConfig) *Renderer {
	if config == nil {
		config = engine.DefaultConfig()
	}
	filled := config.WithDefaults()
	return &Renderer{
		cellSize: float64(filled.CellSize),
		palette:  filled.Palette,
		assets:   filled.Assets,
		failed:   make(map[Role]bool),
	}
}

// MarkFailed records images that could not be loaded. Unknown names are ignored.
func (r *Renderer) MarkFailed(names ...string) {
	for _, name := range names {
		switch Role(name) {
		case RoleHead, RoleBody, RoleFood:
			r.failed[Role(name)] = true
		}
	}
}

// Available reports whether the image for role will be drawn
func (r *Renderer) Available(role Role) bool {
	return r.src(role) != "" && !r.failed[role]
}

// CellSize returns the pixel size of one grid cell
func (r *Renderer) CellSize() int {
	return int(r.cellSize)
}

// CanvasSize returns the pixel dimensions needed for grid
func (r *Renderer) CanvasSize(grid engine.Grid) (width, height int) {
	return grid.Columns * int(r.cellSize), grid.Rows * int(r.cellSize)
}

// Draw paints the full frame: background, food, then the snake from head to tail
func (r *Renderer) Draw(s Surface, state *engine.GameState) {
	w, h := r.CanvasSize(state.Grid)
	full := Rect{W: float64(w), H: float64(h)}

	s.ClearRect(full)
	s.FillRect(full, Paint{Role: RoleBackground, Color: r.palette.Background})

	if state.HasFood {
		if r.Available(RoleFood) {
			s.DrawImage(Image{Role: RoleFood, Src: r.assets.Food}, r.cellRect(state.Food))
		} else {
			half := r.cellSize / 2
			s.FillCircle(float64(state.Food.X)*r.cellSize+half, float64(state.Food.Y)*r.cellSize+half, half,
				Paint{Role: RoleFood, Color: r.palette.Food})
		}
	}

	for i, seg := range state.Snake {
		rect := r.cellRect(seg)
		if i == 0 {
			if r.Available(RoleHead) {
				s.DrawImage(Image{Role: RoleHead, Src: r.assets.Head}, rect)
			} else {
				s.FillRect(rect, Paint{Role: RoleHead, Color: r.palette.Head})
			}
			continue
		}

		if r.Available(RoleBody) {
			s.DrawImage(Image{Role: RoleBody, Src: r.assets.Body}, rect)
			continue
		}
		color := r.palette.Body
		if i%2 == 1 {
			color = r.palette.BodyAlt
		}
		s.FillRect(rect, Paint{Role: RoleBody, Color: color})
	}
}

func (r *Renderer) cellRect(c engine.Cell) Rect {
	return Rect{
		X: float64(c.X) * r.cellSize,
		Y: float64(c.Y) * r.cellSize,
		W: r.cellSize,
		H: r.cellSize,
	}
}

func (r *Renderer) src(role Role) string {
	switch role {
	case RoleHead:
		return r.assets.Head
	case RoleBody:
		return r.assets.Body
	case RoleFood:
		return r.assets.Food
	}
	return ""
}
