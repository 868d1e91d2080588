// Package scene provides the scene container a renderer draws from, the
// camera that views it and the default visual objects.
package scene

import "slices"

// Container is the minimal scene graph the graphics coordinator needs.
type Container[H any] interface {
	Add(obj H)
	Remove(obj H)
	Traverse(fn func(obj H))
}

// Disposer is implemented by objects that retain backend resources
type Disposer interface {
	Dispose()
}

// Scene holds visual objects in insertion order.
type Scene[H comparable] struct {
	objects []H
}

// New creates an empty scene.
func New[H comparable]() *Scene[H] {
	return &Scene[H]{}
}

// Add appends an object. Adding an object twice is a no-op.
func (s *Scene[H]) Add(obj H) {
	if slices.Contains(s.objects, obj) {
		return
	}
	s.objects = append(s.objects, obj)
}

// Remove detaches an object; absent objects are ignored.
func (s *Scene[H]) Remove(obj H) {
	s.objects = slices.DeleteFunc(s.objects, func(o H) bool { return o == obj })
}

// Traverse visits every object in insertion order.
func (s *Scene[H]) Traverse(fn func(obj H)) {
	for _, obj := range slices.Clone(s.objects) {
		fn(obj)
	}
}

// Len returns the number of objects in the scene
func (s *Scene[H]) Len() int {
	return len(s.objects)
}

// Contains reports whether obj is attached to the scene
func (s *Scene[H]) Contains(obj H) bool {
	return slices.Contains(s.objects, obj)
}

// Release disposes every object that retains resources. The objects stay
// attached.
func Release[H any](c Container[H]) {
	c.Traverse(func(obj H) {
		if d, ok := any(obj).(Disposer); ok {
			d.Dispose()
		}
	})
}
