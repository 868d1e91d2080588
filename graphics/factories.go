package graphics

import (
	"errors"

	"github.com/TFMV/echograph3d/models"
	"github.com/TFMV/echograph3d/scene"
)

// ErrSkip is returned by a factory to leave an entity without a visual proxy.
var ErrSkip = errors.New("graphics: skip entity")

// NodeFactory creates the visual object for a node. Returning ErrSkip leaves
// the node invisible; any other error is propagated to the caller. Every
// call must return a distinct handle: the scene holds a handle once, so two
// entities sharing one lose their visual together.
type NodeFactory[H any] func(node *models.Node) (H, error)

// LinkFactory creates the visual object for a link. Returning ErrSkip leaves
// the link invisible; any other error is propagated to the caller. Handles
// must be distinct per link, as for NodeFactory.
type LinkFactory[H any] func(link *models.Link) (H, error)

// NodeRenderer copies the simulated position of a node proxy into its
// visual object. It runs once per frame per node and must not allocate.
type NodeRenderer[H any] func(ui *NodeUI[H])

// LinkRenderer copies the endpoint positions of a link proxy into its visual
// object. It runs once per frame per link and must not allocate.
type LinkRenderer[H any] func(ui *LinkUI[H])

// NodeUI is the visual proxy of a node. Pos is written by the coordinator
// before every frame.
type NodeUI[H any] struct {
	Handle H
	Node   *models.Node
	Pos    models.Vector3
}

// LinkUI is the visual proxy of a link. From and To are the simulated
// positions of its endpoints, written by the coordinator before every frame.
type LinkUI[H any] struct {
	Handle H
	Link   *models.Link
	From   models.Vector3
	To     models.Vector3
}

// default size of a node cube
const nodeSize = 2

const (
	defaultNodeColor = 0xfefefe
	defaultLinkColor = 0x00cccc
)

// DefaultNodeFactory renders a node as a small cube
func DefaultNodeFactory(*models.Node) (scene.Object, error) {
	return scene.NewMesh(scene.NewBoxGeometry(nodeSize), scene.NewMaterial(defaultNodeColor)), nil
}

// DefaultLinkFactory renders a link as a line; the link renderer moves its
// vertices
func DefaultLinkFactory(*models.Link) (scene.Object, error) {
	return scene.NewLine(scene.NewMaterial(defaultLinkColor)), nil
}

// DefaultNodeRenderer updates the cube position
func DefaultNodeRenderer(ui *NodeUI[scene.Object]) {
	if mesh, ok := ui.Handle.(*scene.Mesh); ok {
		mesh.Position = ui.Pos
	}
}

// DefaultLinkRenderer updates the line vertices
func DefaultLinkRenderer(ui *LinkUI[scene.Object]) {
	if line, ok := ui.Handle.(*scene.Line); ok {
		line.Vertices[0] = ui.From
		line.Vertices[1] = ui.To
		line.NeedsUpdate = true
	}
}
