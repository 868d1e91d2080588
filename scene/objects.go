package scene

import "github.com/TFMV/echograph3d/models"

// Object is a visual object understood by the bundled renderers
type Object interface {
	Disposer
	Disposed() bool
}

// Material holds the colour of an object
type Material struct {
	Color    uint32
	disposed bool
}

// NewMaterial creates a flat colour material
func NewMaterial(color uint32) *Material {
	return &Material{Color: color}
}

// Dispose releases the material
func (m *Material) Dispose() { m.disposed = true }

// Disposed reports whether Dispose was called
func (m *Material) Disposed() bool { return m.disposed }

// BoxGeometry is an axis aligned cube
type BoxGeometry struct {
	Size     float64
	disposed bool
}

// NewBoxGeometry creates a cube geometry
func NewBoxGeometry(size float64) *BoxGeometry {
	return &BoxGeometry{Size: size}
}

// Dispose releases the geometry
func (g *BoxGeometry) Dispose() { g.disposed = true }

// Disposed reports whether Dispose was called
func (g *BoxGeometry) Disposed() bool { return g.disposed }

// Mesh places a geometry with a material in the scene
type Mesh struct {
	Position models.Vector3
	Geometry *BoxGeometry
	Material *Material
}

// NewMesh creates a mesh at the origin
func NewMesh(geometry *BoxGeometry, material *Material) *Mesh {
	return &Mesh{Geometry: geometry, Material: material}
}

// Dispose releases the geometry and the material
func (m *Mesh) Dispose() {
	if m.Geometry != nil {
		m.Geometry.Dispose()
	}
	if m.Material != nil {
		m.Material.Dispose()
	}
}

// Disposed reports whether the mesh resources were released
func (m *Mesh) Disposed() bool {
	return m.Geometry != nil && m.Geometry.Disposed()
}

// Line is a segment between two vertices
type Line struct {
	Vertices    [2]models.Vector3
	Material    *Material
	NeedsUpdate bool
	disposed    bool
}

// NewLine creates a degenerate line at the origin; a renderer adapter moves
// the vertices every frame.
func NewLine(material *Material) *Line {
	return &Line{Material: material}
}

// Dispose releases the line resources
func (l *Line) Dispose() {
	l.disposed = true
	if l.Material != nil {
		l.Material.Dispose()
	}
}

// Disposed reports whether Dispose was called
func (l *Line) Disposed() bool { return l.disposed }
