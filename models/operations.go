package models

import (
	"github.com/google/uuid"
)

// NewNode creates a node record with the given id and payload
func NewNode(id string, data any) *Node {
	return &Node{
		ID:    id,
		Label: id,
		Data:  data,
	}
}

// NewLink creates a link with a unique ID between two nodes
func NewLink(fromID, toID string, data any) *Link {
	return &Link{
		ID:     uuid.New().String(),
		FromID: fromID,
		ToID:   toID,
		Weight: 1.0,
		Data:   data,
	}
}

// Other returns the endpoint of the link opposite to nodeID
func (l *Link) Other(nodeID string) string {
	if l.FromID == nodeID {
		return l.ToID
	}
	return l.FromID
}

// Touches reports whether nodeID is one of the link endpoints
func (l *Link) Touches(nodeID string) bool {
	return l.FromID == nodeID || l.ToID == nodeID
}

// SetWeight sets the spring weight of a link
func (l *Link) SetWeight(weight float64) {
	l.Weight = weight
}
