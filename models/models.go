// Package models provides the entity records shared by the graph container,
// the layout simulation and the graphics coordinator.
package models

import (
	"fmt"
	"math"
)

// Node represents a node in the graph
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Link represents a connection between two nodes
type Link struct {
	ID     string  `json:"id"`
	FromID string  `json:"from"`
	ToID   string  `json:"to"`
	Weight float64 `json:"weight,omitempty"`
	Data   any     `json:"data,omitempty"`
}

// ChangeType tags a change record emitted by the graph container
type ChangeType int

const (
	// ChangeAdd means the entity entered the graph
	ChangeAdd ChangeType = iota
	// ChangeRemove means the entity left the graph
	ChangeRemove
	// ChangeUpdate means an existing node received new data
	ChangeUpdate
)

func (t ChangeType) String() string {
	switch t {
	case ChangeAdd:
		return "add"
	case ChangeRemove:
		return "remove"
	case ChangeUpdate:
		return "update"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(t))
	}
}

// Change is one record of a mutation batch. A record may carry a node,
// a link, or both.
type Change struct {
	Type ChangeType
	Node *Node
	Link *Link
}

// Vector3 is a point or direction in 3D space
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + o
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the euclidean norm of v
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
