package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/echograph3d/config"
	"github.com/TFMV/echograph3d/generate"
	"github.com/TFMV/echograph3d/graph"
	"github.com/TFMV/echograph3d/graphics"
	"github.com/TFMV/echograph3d/ingest"
	"github.com/TFMV/echograph3d/models"
	"github.com/TFMV/echograph3d/physics"
	"github.com/TFMV/echograph3d/scene"
)

// loadGraph parses the input file, or generates the configured shape when
// there is none. The format defaults to the file extension.
func loadGraph(cfg *config.Config, input, format string) (*graph.Graph, error) {
	if input == "" {
		return generate.Build(cfg.Graph.Shape, cfg.Graph.N, cfg.Graph.M)
	}

	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(input)), ".")
	}
	if cfg.Render.Palette == "surreal" && !strings.HasPrefix(format, "surreal-") {
		format = "surreal-" + format
	}
	processor, err := ingest.GetProcessor(format)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	g, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process data: %w", err)
	}
	return g, nil
}

func palette(name string) *ingest.Palette {
	switch name {
	case "surreal":
		return ingest.SurrealPalette()
	case "category":
		return ingest.CategoryPalette()
	default:
		return ingest.DefaultPalette()
	}
}

// styledFactories colour nodes and links by their ingest style, falling back
// to the palette in creation order.
func styledFactories(p *ingest.Palette) (graphics.NodeFactory[scene.Object], graphics.LinkFactory[scene.Object]) {
	var nodes, links int

	nodeFactory := func(n *models.Node) (scene.Object, error) {
		color, size := p.NodeColor(nodes), 2.0
		nodes++
		if style, ok := ingest.StyleOf(n.Data); ok {
			color, size = style.Color, style.Size/6
		}
		return scene.NewMesh(scene.NewBoxGeometry(size), scene.NewMaterial(color)), nil
	}
	linkFactory := func(l *models.Link) (scene.Object, error) {
		color := p.EdgeColor(links)
		links++
		if style, ok := ingest.StyleOf(l.Data); ok {
			color = style.Color
		}
		return scene.NewLine(scene.NewMaterial(color)), nil
	}
	return nodeFactory, linkFactory
}

// fitCamera moves the camera back far enough to see every node
func fitCamera(cam *scene.Camera, g *graph.Graph, layout physics.Simulator) {
	radius := 0.0
	g.ForEachNode(func(n *models.Node) bool {
		radius = math.Max(radius, layout.Position(n.ID).Length())
		return true
	})
	halfFOV := cam.FOV / 2 * math.Pi / 180
	distance := radius/math.Tan(halfFOV) + radius
	cam.Position = models.Vector3{Z: math.Max(distance*1.1, 400)}
	cam.Far = math.Max(cam.Far, cam.Position.Z+radius)
}
