package render

import (
	"strings"

	"github.com/wricardo/canvas-snake/game/engine"
)

// Glyphs used by the terminal surface
const (
	CharEmpty = "  " // Two spaces to match emoji width
	CharWall  = "⬜"
	CharHead  = "🟢"
	CharBody  = "🟩"
	CharFood  = "🍰"
	CharCrash = "💥"
)

// Terminal is a Surface that rasterizes draw calls onto a cell grid of glyphs
type Terminal struct {
	cellSize float64
	board    [][]string
	buffer   strings.Builder
}

// NewTerminal creates a glyph surface for grid with the renderer's cell size
func NewTerminal(grid engine.Grid, cellSize int) *Terminal {
	if cellSize <= 0 {
		cellSize = engine.DefaultCellSize
	}
	// Pre-allocate board to reduce GC pressure
	board := make([][]string, grid.Rows)
	for i := range board {
		board[i] = make([]string, grid.Columns)
	}
	t := &Terminal{cellSize: float64(cellSize), board: board}
	t.fill(0, 0, grid.Columns, grid.Rows, CharEmpty)
	return t
}

func (t *Terminal) ClearRect(r Rect) {
	x0, y0, x1, y1 := t.span(r)
	t.fill(x0, y0, x1, y1, CharEmpty)
}

func (t *Terminal) FillRect(r Rect, p Paint) {
	x0, y0, x1, y1 := t.span(r)
	t.fill(x0, y0, x1, y1, glyph(p.Role))
}

func (t *Terminal) FillCircle(cx, cy, radius float64, p Paint) {
	t.FillRect(Rect{X: cx - radius, Y: cy - radius, W: radius * 2, H: radius * 2}, p)
}

func (t *Terminal) DrawImage(img Image, r Rect) {
	t.FillRect(r, Paint{Role: img.Role})
}

// MarkCrash overlays the crash glyph on c
func (t *Terminal) MarkCrash(c engine.Cell) {
	if c.Y >= 0 && c.Y < len(t.board) && c.X >= 0 && c.X < len(t.board[c.Y]) {
		t.board[c.Y][c.X] = CharCrash
	}
}

// String renders the board inside a wall border
func (t *Terminal) String() string {
	t.buffer.Reset()
	cols := 0
	if len(t.board) > 0 {
		cols = len(t.board[0])
	}
	border := strings.Repeat(CharWall, cols+2)

	t.buffer.WriteString("  " + border + "\n")
	for _, row := range t.board {
		t.buffer.WriteString("  " + CharWall)
		for _, cell := range row {
			t.buffer.WriteString(cell)
		}
		t.buffer.WriteString(CharWall + "\n")
	}
	t.buffer.WriteString("  " + border + "\n")
	return t.buffer.String()
}

// Cell returns the glyph at c
func (t *Terminal) Cell(c engine.Cell) string {
	return t.board[c.Y][c.X]
}

func (t *Terminal) span(r Rect) (x0, y0, x1, y1 int) {
	x0 = int(r.X / t.cellSize)
	y0 = int(r.Y / t.cellSize)
	x1 = int((r.X + r.W + t.cellSize - 1) / t.cellSize)
	y1 = int((r.Y + r.H + t.cellSize - 1) / t.cellSize)
	return
}

func (t *Terminal) fill(x0, y0, x1, y1 int, g string) {
	for y := max(y0, 0); y < min(y1, len(t.board)); y++ {
		row := t.board[y]
		for x := max(x0, 0); x < min(x1, len(row)); x++ {
			row[x] = g
		}
	}
}

func glyph(role Role) string {
	switch role {
	case RoleHead:
		return CharHead
	case RoleBody:
		return CharBody
	case RoleFood:
		return CharFood
	}
	return CharEmpty
}
