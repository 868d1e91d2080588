// Package render provides rendering backends that draw a scene through a
// camera, and the host surfaces that display their output.
package render

import (
	"fmt"
	"strings"

	"github.com/TFMV/echograph3d/scene"
)

// Renderer draws one frame of a scene
type Renderer[H any] interface {
	Render(sc scene.Container[H], cam *scene.Camera) error
}

// Surface is implemented by renderers that paint into a canvas which a Host
// can mount
type Surface interface {
	Canvas() *Canvas
	SetSize(width, height int)
}

// Host displays mounted canvases, like a DOM container holds a canvas
// element.
type Host interface {
	Size() (width, height int)
	AppendChild(c *Canvas)
	RemoveChild(c *Canvas)
	Present(c *Canvas) error
}

// ParseColor converts a "#rrggbb" or "#rgb" string to a packed RGB value.
// Invalid input yields black.
func ParseColor(hex string) uint32 {
	r, g, b := parseHexColor(hex)
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// FormatColor converts a packed RGB value to "#rrggbb"
func FormatColor(c uint32) string {
	return fmt.Sprintf("#%06x", c&0xffffff)
}

// Parse a hex color string into RGB components
func parseHexColor(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 3:
		// Convert 3-digit hex to 6-digit
		r := parseHexDigit(hex[0])
		g := parseHexDigit(hex[1])
		b := parseHexDigit(hex[2])
		return r * 17, g * 17, b * 17
	case 6:
		return parseHexByte(hex[0:2]), parseHexByte(hex[2:4]), parseHexByte(hex[4:6])
	}

	// Default to black if invalid
	return 0, 0, 0
}

func parseHexDigit(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func parseHexByte(s string) uint8 {
	var result uint8
	for i := 0; i < len(s); i++ {
		result = result*16 + parseHexDigit(s[i])
	}
	return result
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
