package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor converts a "#rgb", "#rrggbb" or "#rrggbbaa" palette entry.
// The result is alpha-premultiplied as image/color expects.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	a := uint32(v & 0xff)
	premul := func(c uint32) uint8 { return uint8(c * a / 0xff) }
	return color.RGBA{R: premul(uint32(v>>24) & 0xff), G: premul(uint32(v>>16) & 0xff), B: premul(uint32(v>>8) & 0xff), A: uint8(a)}, nil
}
