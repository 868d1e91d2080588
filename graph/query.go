package graph

import (
	"fmt"

	"github.com/TFMV/echograph3d/models"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *models.Node) bool

// LinksOf returns all links touching a node, in insertion order
func (g *Graph) LinksOf(nodeID string) []*models.Link {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := g.sortedAdjacency(nodeID)
	result := make([]*models.Link, 0, len(ids))
	for _, id := range ids {
		result = append(result, g.links[id])
	}
	return result
}

// Neighbors returns the ids of all nodes directly connected to a node
func (g *Graph) Neighbors(nodeID string) ([]string, error) {
	if _, ok := g.GetNode(nodeID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}

	seen := make(map[string]bool)
	var result []string
	for _, link := range g.LinksOf(nodeID) {
		other := link.Other(nodeID)
		if other == nodeID || seen[other] {
			continue
		}
		seen[other] = true
		result = append(result, other)
	}
	return result, nil
}

// FindLinks returns every link from one node to another
func (g *Graph) FindLinks(fromID, toID string) []*models.Link {
	var result []*models.Link
	for _, link := range g.LinksOf(fromID) {
		if link.FromID == fromID && link.ToID == toID {
			result = append(result, link)
		}
	}
	return result
}

// FilterNodes returns nodes that match the provided filter function
func (g *Graph) FilterNodes(filter NodeFilter) []*models.Node {
	var result []*models.Node
	g.ForEachNode(func(node *models.Node) bool {
		if filter(node) {
			result = append(result, node)
		}
		return true
	})
	return result
}
