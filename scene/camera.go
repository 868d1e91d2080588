package scene

import (
	"math"

	"github.com/TFMV/echograph3d/models"
)

// Camera is a perspective camera looking down the negative Z axis from
// Position.
type Camera struct {
	Position models.Vector3
	FOV      float64 // vertical field of view in degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// NewPerspectiveCamera creates a camera with the given frustum
func NewPerspectiveCamera(fov, aspect, near, far float64) *Camera {
	return &Camera{FOV: fov, Aspect: aspect, Near: near, Far: far}
}

// DefaultCamera returns the camera used when none is supplied: 75 degree
// field of view placed 400 units in front of the origin.
func DefaultCamera(width, height int) *Camera {
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height)
	}
	cam := NewPerspectiveCamera(75, aspect, 0.1, 3000)
	cam.Position.Z = 400
	return cam
}

// Project maps a world point to normalized device coordinates in [-1, 1].
// ok is false when the point lies outside the near/far range.
func (c *Camera) Project(p models.Vector3) (x, y float64, ok bool) {
	rel := p.Sub(c.Position)
	depth := -rel.Z
	if depth < c.Near || depth > c.Far {
		return 0, 0, false
	}

	f := 1 / math.Tan(c.FOV*math.Pi/360)
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return rel.X * f / (aspect * depth), rel.Y * f / depth, true
}
