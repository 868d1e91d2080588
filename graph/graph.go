// Package graph implements an in-memory, observable graph container. Every
// structural mutation is reported to listeners as an ordered batch of
// models.Change records.
package graph

import (
	"errors"
	"slices"
	"sync"

	"github.com/TFMV/echograph3d/models"
)

var (
	// ErrEmptyID is returned when a node or link id is empty
	ErrEmptyID = errors.New("graph: empty id")
	// ErrNodeNotFound is returned when a referenced node does not exist
	ErrNodeNotFound = errors.New("graph: node not found")
	// ErrLinkNotFound is returned when a referenced link does not exist
	ErrLinkNotFound = errors.New("graph: link not found")
	// ErrUpdateNotStarted is returned by EndUpdate without a matching BeginUpdate
	ErrUpdateNotStarted = errors.New("graph: EndUpdate without BeginUpdate")
)

// Listener receives a batch of changes. An error returned by a listener is
// propagated out of the mutating call that produced the batch.
type Listener func(changes []models.Change) error

type subscription struct {
	fn     Listener
	active bool
}

// Graph is a mutable graph of nodes and links.
//
// The mutex guards the entity maps only; listeners run after it has been
// released so they may query the graph freely.
type Graph struct {
	mu        sync.Mutex
	nodes     map[string]*models.Node
	links     map[string]*models.Link
	nodeOrder []string
	linkOrder []string
	adjacency map[string]map[string]struct{} // node id -> link ids

	listeners []*subscription
	updating  int
	pending   []models.Change
}

// LinkOption customizes a link created by AddLink
type LinkOption func(l *models.Link)

// WithWeight sets the spring weight of a new link
func WithWeight(weight float64) LinkOption {
	return func(l *models.Link) { l.Weight = weight }
}

// WithLinkID overrides the generated link id
func WithLinkID(id string) LinkOption {
	return func(l *models.Link) {
		if id != "" {
			l.ID = id
		}
	}
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]*models.Node),
		links:     make(map[string]*models.Link),
		adjacency: make(map[string]map[string]struct{}),
	}
}

// On registers a listener for change batches and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (g *Graph) On(fn Listener) (unsubscribe func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sub := &subscription{fn: fn, active: true}
	g.listeners = append(g.listeners, sub)

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		sub.active = false
		g.listeners = slices.DeleteFunc(g.listeners, func(s *subscription) bool { return s == sub })
	}
}

// BeginUpdate starts a batch: changes are buffered until the matching
// EndUpdate. Calls nest.
func (g *Graph) BeginUpdate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updating++
}

// EndUpdate closes a batch and delivers buffered changes once the outermost
// batch ends.
func (g *Graph) EndUpdate() error {
	g.mu.Lock()
	if g.updating == 0 {
		g.mu.Unlock()
		return ErrUpdateNotStarted
	}
	g.updating--
	g.mu.Unlock()
	return g.flush()
}

// AddNode inserts a node, or replaces the data of an existing one.
func (g *Graph) AddNode(id string, data any) (*models.Node, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	g.mu.Lock()
	node := g.addNodeLocked(id, data)
	g.mu.Unlock()

	return node, g.flush()
}

func (g *Graph) addNodeLocked(id string, data any) *models.Node {
	if node, ok := g.nodes[id]; ok {
		if data != nil {
			node.Data = data
			g.pending = append(g.pending, models.Change{Type: models.ChangeUpdate, Node: node})
		}
		return node
	}

	node := models.NewNode(id, data)
	g.nodes[id] = node
	g.nodeOrder = append(g.nodeOrder, id)
	g.pending = append(g.pending, models.Change{Type: models.ChangeAdd, Node: node})
	return node
}

// AddLink connects two nodes, creating missing endpoints first.
func (g *Graph) AddLink(fromID, toID string, data any, opts ...LinkOption) (*models.Link, error) {
	if fromID == "" || toID == "" {
		return nil, ErrEmptyID
	}

	g.mu.Lock()
	g.addNodeLocked(fromID, nil)
	g.addNodeLocked(toID, nil)

	link := models.NewLink(fromID, toID, data)
	for _, opt := range opts {
		opt(link)
	}
	if old, ok := g.links[link.ID]; ok {
		g.removeLinkLocked(old)
	}

	g.links[link.ID] = link
	g.linkOrder = append(g.linkOrder, link.ID)
	g.attach(fromID, link.ID)
	g.attach(toID, link.ID)
	g.pending = append(g.pending, models.Change{Type: models.ChangeAdd, Link: link})
	g.mu.Unlock()

	return link, g.flush()
}

func (g *Graph) attach(nodeID, linkID string) {
	set, ok := g.adjacency[nodeID]
	if !ok {
		set = make(map[string]struct{})
		g.adjacency[nodeID] = set
	}
	set[linkID] = struct{}{}
}

// RemoveLink deletes a link. It reports whether the link existed.
func (g *Graph) RemoveLink(id string) (bool, error) {
	g.mu.Lock()
	link, ok := g.links[id]
	if !ok {
		g.mu.Unlock()
		return false, nil
	}
	g.removeLinkLocked(link)
	g.mu.Unlock()

	return true, g.flush()
}

func (g *Graph) removeLinkLocked(link *models.Link) {
	delete(g.links, link.ID)
	g.linkOrder = slices.DeleteFunc(g.linkOrder, func(id string) bool { return id == link.ID })
	delete(g.adjacency[link.FromID], link.ID)
	delete(g.adjacency[link.ToID], link.ID)
	g.pending = append(g.pending, models.Change{Type: models.ChangeRemove, Link: link})
}

// RemoveNode deletes a node and every link touching it. Link removals are
// reported before the node removal. It reports whether the node existed.
func (g *Graph) RemoveNode(id string) (bool, error) {
	g.mu.Lock()
	node, ok := g.nodes[id]
	if !ok {
		g.mu.Unlock()
		return false, nil
	}

	for _, linkID := range g.sortedAdjacency(id) {
		g.removeLinkLocked(g.links[linkID])
	}
	delete(g.adjacency, id)
	delete(g.nodes, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(n string) bool { return n == id })
	g.pending = append(g.pending, models.Change{Type: models.ChangeRemove, Node: node})
	g.mu.Unlock()

	return true, g.flush()
}

// sortedAdjacency returns the link ids touching a node in insertion order.
func (g *Graph) sortedAdjacency(nodeID string) []string {
	set := g.adjacency[nodeID]
	ids := make([]string, 0, len(set))
	for _, linkID := range g.linkOrder {
		if _, ok := set[linkID]; ok {
			ids = append(ids, linkID)
		}
	}
	return ids
}

// Clear removes every link and node.
func (g *Graph) Clear() error {
	g.mu.Lock()
	for len(g.linkOrder) > 0 {
		g.removeLinkLocked(g.links[g.linkOrder[0]])
	}
	for _, id := range g.nodeOrder {
		g.pending = append(g.pending, models.Change{Type: models.ChangeRemove, Node: g.nodes[id]})
	}
	g.nodes = make(map[string]*models.Node)
	g.adjacency = make(map[string]map[string]struct{})
	g.nodeOrder = nil
	g.mu.Unlock()

	return g.flush()
}

// flush delivers pending changes unless a batch is open.
func (g *Graph) flush() error {
	g.mu.Lock()
	if g.updating > 0 || len(g.pending) == 0 {
		g.mu.Unlock()
		return nil
	}
	changes := g.pending
	g.pending = nil
	listeners := slices.Clone(g.listeners)
	g.mu.Unlock()

	var errs []error
	for _, sub := range listeners {
		if !sub.active {
			continue
		}
		if err := sub.fn(changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetNode returns a node by its ID
func (g *Graph) GetNode(id string) (*models.Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	node, ok := g.nodes[id]
	return node, ok
}

// GetLink returns a link by its ID
func (g *Graph) GetLink(id string) (*models.Link, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	link, ok := g.links[id]
	return link, ok
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// LinkCount returns the number of links
func (g *Graph) LinkCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.links)
}

// ForEachNode calls fn for every node in insertion order until fn returns false.
func (g *Graph) ForEachNode(fn func(node *models.Node) bool) {
	g.mu.Lock()
	nodes := make([]*models.Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id])
	}
	g.mu.Unlock()

	for _, node := range nodes {
		if !fn(node) {
			return
		}
	}
}

// ForEachLink calls fn for every link in insertion order until fn returns false.
func (g *Graph) ForEachLink(fn func(link *models.Link) bool) {
	g.mu.Lock()
	links := make([]*models.Link, 0, len(g.linkOrder))
	for _, id := range g.linkOrder {
		links = append(links, g.links[id])
	}
	g.mu.Unlock()

	for _, link := range links {
		if !fn(link) {
			return
		}
	}
}
