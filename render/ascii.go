package render

import (
	"github.com/TFMV/echograph3d/models"
	"github.com/TFMV/echograph3d/scene"
)

const (
	nodeSymbol = 'O'
	linkSymbol = '·'
)

// ASCIIRenderer draws a scene of meshes and lines as ASCII art
type ASCIIRenderer struct {
	canvas *Canvas
	frames int

	// Title is written on the first row inside the border when it fits
	Title string
}

// NewASCIIRenderer creates a renderer painting into a canvas of the given size
func NewASCIIRenderer(width, height int) *ASCIIRenderer {
	return &ASCIIRenderer{
		canvas: NewCanvas(width, height),
		Title:  "echograph3d",
	}
}

// Canvas returns the canvas the renderer paints into
func (r *ASCIIRenderer) Canvas() *Canvas {
	return r.canvas
}

// SetSize resizes the canvas
func (r *ASCIIRenderer) SetSize(width, height int) {
	r.canvas.Resize(width, height)
}

// Frames returns the number of frames rendered
func (r *ASCIIRenderer) Frames() int {
	return r.frames
}

// Render paints the scene and presents it if the canvas is mounted
func (r *ASCIIRenderer) Render(sc scene.Container[scene.Object], cam *scene.Camera) error {
	c := r.canvas
	c.Clear()
	width, height := c.Width(), c.Height()

	// Draw a border around the graph
	if width >= 3 && height >= 3 {
		for i := 0; i < width; i++ {
			c.Set(i, 0, '-', 0)
			c.Set(i, height-1, '-', 0)
		}
		for i := 0; i < height; i++ {
			c.Set(0, i, '|', 0)
			c.Set(width-1, i, '|', 0)
		}
		c.Set(0, 0, '+', 0)
		c.Set(width-1, 0, '+', 0)
		c.Set(0, height-1, '+', 0)
		c.Set(width-1, height-1, '+', 0)
	}

	var meshes []*scene.Mesh
	sc.Traverse(func(obj scene.Object) {
		switch o := obj.(type) {
		case *scene.Line:
			x1, y1, ok1 := r.toGrid(cam, o.Vertices[0])
			x2, y2, ok2 := r.toGrid(cam, o.Vertices[1])
			if ok1 && ok2 {
				drawLine(c, x1, y1, x2, y2, materialColor(o.Material))
			}
		case *scene.Mesh:
			meshes = append(meshes, o)
		}
	})

	// Draw nodes over links
	for _, m := range meshes {
		if x, y, ok := r.toGrid(cam, m.Position); ok {
			c.Set(x, y, nodeSymbol, materialColor(m.Material))
		}
	}

	if len(r.Title) < width-4 && height > 3 {
		for i, ch := range r.Title {
			c.Set(i+2, 1, ch, 0)
		}
	}

	r.frames++
	if h := c.Host(); h != nil {
		return h.Present(c)
	}
	return nil
}

// toGrid projects a world point to a cell inside the border
func (r *ASCIIRenderer) toGrid(cam *scene.Camera, p models.Vector3) (int, int, bool) {
	nx, ny, ok := cam.Project(p)
	if !ok || nx < -1 || nx > 1 || ny < -1 || ny > 1 {
		return 0, 0, false
	}
	width, height := r.canvas.Width(), r.canvas.Height()
	x := int((nx + 1) / 2 * float64(width-2))
	y := int((1 - ny) / 2 * float64(height-2))
	return clamp(x+1, 1, max(width-2, 1)), clamp(y+1, 1, max(height-2, 1)), true
}

func materialColor(m *scene.Material) uint32 {
	if m == nil {
		return 0
	}
	return m.Color
}

// Draw a line on the canvas using Bresenham's algorithm
func drawLine(c *Canvas, x1, y1, x2, y2 int, rgb uint32) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		// Don't overwrite node symbols
		if c.At(x1, y1) != nodeSymbol {
			c.Set(x1, y1, linkSymbol, rgb)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			if x1 == x2 {
				break
			}
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			if y1 == y2 {
				break
			}
			err += dx
			y1 += sy
		}
	}
}
