// Package controls moves a camera in response to navigation commands.
package controls

import (
	"github.com/TFMV/echograph3d/models"
	"github.com/TFMV/echograph3d/scene"
)

// Controls is updated once per frame and released on dispose
type Controls interface {
	Update(delta float64)
	Dispose()
}

// Noop is used when interaction is disabled
type Noop struct{}

// Update does nothing
func (Noop) Update(float64) {}

// Dispose does nothing
func (Noop) Dispose() {}

// Fly moves the camera along the axes at a constant speed while a direction
// is held.
type Fly struct {
	camera   *scene.Camera
	move     models.Vector3
	disposed bool

	// Speed is the distance travelled per unit of delta
	Speed float64
}

// NewFly creates fly controls for a camera
func NewFly(camera *scene.Camera) *Fly {
	return &Fly{camera: camera, Speed: 5}
}

// Hold sets the direction of movement. Components are clamped to [-1, 1];
// a zero vector stops the camera.
func (f *Fly) Hold(dir models.Vector3) {
	f.move = models.Vector3{X: unit(dir.X), Y: unit(dir.Y), Z: unit(dir.Z)}
}

// Release stops all movement
func (f *Fly) Release() {
	f.move = models.Vector3{}
}

// Update advances the camera
func (f *Fly) Update(delta float64) {
	if f.disposed {
		return
	}
	f.camera.Position = f.camera.Position.Add(f.move.Scale(f.Speed * delta))
}

// Dispose detaches the controls from the camera
func (f *Fly) Dispose() {
	f.disposed = true
	f.move = models.Vector3{}
}

// Disposed reports whether Dispose was called
func (f *Fly) Disposed() bool {
	return f.disposed
}

func unit(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
