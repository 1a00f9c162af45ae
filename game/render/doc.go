// Package render draws game state onto abstract 2D surfaces.
//
// Renderer.Draw clears the surface, fills the background, then draws the
// food and each snake segment. Every element uses its configured image when
// available and falls back to a colored shape otherwise: a circle for food,
// a square for the head, and alternating squares for the body.
//
// Surfaces:
//   - Recorder keeps the calls as JSON commands that the browser replays on a canvas
//   - Terminal rasterizes the calls onto a glyph grid for the terminal front end
//
// The desktop front end provides its own ebiten-backed Surface.
package render
