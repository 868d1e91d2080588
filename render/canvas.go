package render

import (
	"strings"

	"github.com/fatih/color"
)

type cell struct {
	r     rune
	color uint32
}

// Canvas is a character grid a renderer paints into.
type Canvas struct {
	width, height int
	cells         []cell
	host          Host
}

// NewCanvas creates a blank canvas
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the grid and clears it
func (c *Canvas) Resize(width, height int) {
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.cells = make([]cell, c.width*c.height)
	c.Clear()
}

// Width returns the canvas width in cells
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells
func (c *Canvas) Height() int { return c.height }

// Host returns the host the canvas is mounted on, or nil
func (c *Canvas) Host() Host { return c.host }

// SetHost records the host the canvas is mounted on. Hosts call it from
// AppendChild and RemoveChild.
func (c *Canvas) SetHost(h Host) { c.host = h }

// Clear fills the canvas with blanks
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
}

// Set writes a rune; out of range coordinates are ignored
func (c *Canvas) Set(x, y int, r rune, rgb uint32) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{r: r, color: rgb}
}

// At returns the rune at a position, or a blank when out of range
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return ' '
	}
	return c.cells[y*c.width+x].r
}

// String returns the plain text content, one line per row
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			b.WriteRune(c.cells[y*c.width+x].r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Colored returns the content with terminal colours. Runs of equal colour
// share one escape sequence.
func (c *Canvas) Colored() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		row := c.cells[y*c.width : (y+1)*c.width]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].color == row[start].color {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:x] {
				run.WriteRune(cl.r)
			}
			if row[start].color == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(terminalColor(row[start].color).Sprint(run.String()))
			}
			start = x
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// terminalColor picks the closest of the basic terminal colours
func terminalColor(rgb uint32) *color.Color {
	r := (rgb >> 16) & 0xff
	g := (rgb >> 8) & 0xff
	bl := rgb & 0xff

	hi := func(v uint32) bool { return v >= 0x80 }
	switch {
	case hi(r) && hi(g) && hi(bl):
		return color.New(color.FgHiWhite)
	case hi(g) && hi(bl):
		return color.New(color.FgCyan)
	case hi(r) && hi(bl):
		return color.New(color.FgMagenta)
	case hi(r) && hi(g):
		return color.New(color.FgYellow)
	case hi(r):
		return color.New(color.FgRed)
	case hi(g):
		return color.New(color.FgGreen)
	case hi(bl):
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgHiBlack)
	}
}
