package render

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/TFMV/echograph3d/models"
	"github.com/TFMV/echograph3d/scene"
)

// SVGRenderer writes every frame as a standalone SVG document
type SVGRenderer struct {
	out    io.Writer
	width  float64
	height float64
	frames int

	Background string
	Timestamp  bool
}

// NewSVGRenderer creates a renderer writing frames of the given size to out
func NewSVGRenderer(out io.Writer, width, height float64) *SVGRenderer {
	return &SVGRenderer{
		out:        out,
		width:      width,
		height:     height,
		Background: "#f8f8f8",
	}
}

// SetSize changes the viewBox of subsequent frames
func (r *SVGRenderer) SetSize(width, height int) {
	r.width = float64(width)
	r.height = float64(height)
}

// Frames returns the number of frames written
func (r *SVGRenderer) Frames() int {
	return r.frames
}

// Render writes the scene as SVG: links as lines, nodes as circles scaled by
// their distance to the camera.
func (r *SVGRenderer) Render(sc scene.Container[scene.Object], cam *scene.Camera) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, r.width, r.height, r.width, r.height, r.Background)

	var meshes []*scene.Mesh
	sc.Traverse(func(obj scene.Object) {
		switch o := obj.(type) {
		case *scene.Line:
			x1, y1, ok1 := r.toView(cam, o.Vertices[0])
			x2, y2, ok2 := r.toView(cam, o.Vertices[1])
			if ok1 && ok2 {
				fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" />
`, x1, y1, x2, y2, FormatColor(materialColor(o.Material)))
			}
		case *scene.Mesh:
			meshes = append(meshes, o)
		}
	})

	for _, m := range meshes {
		x, y, ok := r.toView(cam, m.Position)
		if !ok {
			continue
		}
		radius := 2.0
		if m.Geometry != nil {
			radius = m.Geometry.Size
		}
		if depth := cam.Position.Z - m.Position.Z; depth > 0 {
			radius *= 400 / depth
		}
		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5" />
`, x, y, radius, FormatColor(materialColor(m.Material)))
	}

	if r.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">%s</text>
`, r.height-5, time.Now().Format("2006-01-02 15:04:05"))
	}
	buf.WriteString("</svg>\n")

	if _, err := r.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write svg frame: %w", err)
	}
	r.frames++
	return nil
}

func (r *SVGRenderer) toView(cam *scene.Camera, p models.Vector3) (float64, float64, bool) {
	nx, ny, ok := cam.Project(p)
	if !ok {
		return 0, 0, false
	}
	return (nx + 1) / 2 * r.width, (1 - ny) / 2 * r.height, true
}
