package render

import (
	"fmt"
	"io"
	"slices"
)

// Terminal is a Host that writes mounted canvases to a writer, one frame
// per Present call.
type Terminal struct {
	out      io.Writer
	width    int
	height   int
	children []*Canvas
	frames   int

	// ANSI moves the cursor home before each frame and emits colours
	ANSI bool
}

// NewTerminal creates a terminal host of the given size in cells
func NewTerminal(out io.Writer, width, height int) *Terminal {
	return &Terminal{out: out, width: width, height: height}
}

// Size returns the terminal size in cells
func (t *Terminal) Size() (int, int) {
	return t.width, t.height
}

// AppendChild mounts a canvas
func (t *Terminal) AppendChild(c *Canvas) {
	if slices.Contains(t.children, c) {
		return
	}
	t.children = append(t.children, c)
	c.SetHost(t)
}

// RemoveChild unmounts a canvas; unknown canvases are ignored
func (t *Terminal) RemoveChild(c *Canvas) {
	if !slices.Contains(t.children, c) {
		return
	}
	t.children = slices.DeleteFunc(t.children, func(o *Canvas) bool { return o == c })
	c.SetHost(nil)
}

// Children returns the mounted canvases
func (t *Terminal) Children() []*Canvas {
	return slices.Clone(t.children)
}

// Frames returns the number of frames written
func (t *Terminal) Frames() int {
	return t.frames
}

// Present writes a mounted canvas. Canvases that are not mounted are
// skipped.
func (t *Terminal) Present(c *Canvas) error {
	if !slices.Contains(t.children, c) {
		return nil
	}

	var err error
	if t.ANSI {
		_, err = fmt.Fprint(t.out, "\x1b[H", c.Colored())
	} else {
		_, err = io.WriteString(t.out, c.String())
	}
	if err != nil {
		return fmt.Errorf("failed to present frame: %w", err)
	}
	t.frames++
	return nil
}
