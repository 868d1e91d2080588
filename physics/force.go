package physics

import (
	"math"
	"sync"

	"github.com/TFMV/echograph3d/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// body is the simulated state of one node
type body struct {
	id    string
	pos   models.Vector3
	vel   models.Vector3
	force models.Vector3
}

// spring pulls the two endpoints of a link together
type spring struct {
	link     *models.Link
	from, to *body
}

// ForceLayout implements a Fruchterman-Reingold style force-directed layout
// in three dimensions. It follows the graph's change stream so bodies and
// springs always match the current topology.
type ForceLayout struct {
	mu          sync.Mutex
	settings    Settings
	source      Source
	bodies      map[string]*body
	order       []*body
	springs     map[string]*spring
	noise       opensimplex.Noise
	placements  int
	temperature float64
	iterations  int
	stable      bool
	disposed    bool
	unsubscribe func()
}

// NewForceLayout builds a layout for every node and link currently in the
// source and subscribes to its future changes.
func NewForceLayout(source Source, settings Settings) (*ForceLayout, error) {
	s := settings.withDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	fl := &ForceLayout{
		settings:    s,
		source:      source,
		bodies:      make(map[string]*body),
		springs:     make(map[string]*spring),
		noise:       opensimplex.New(s.Seed),
		temperature: s.InitialTemperature,
	}

	source.ForEachNode(func(node *models.Node) bool {
		fl.addBody(node.ID)
		return true
	})
	source.ForEachLink(func(link *models.Link) bool {
		fl.addSpring(link)
		return true
	})
	fl.unsubscribe = source.On(fl.onGraphChanged)

	return fl, nil
}

// Settings returns the effective simulation parameters
func (fl *ForceLayout) Settings() Settings {
	return fl.settings
}

// Iterations returns the number of steps performed since the last topology change
func (fl *ForceLayout) Iterations() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.iterations
}

// BodyCount returns the number of simulated nodes
func (fl *ForceLayout) BodyCount() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return len(fl.bodies)
}

// Position returns the current position of a node, or the origin for an
// unknown id.
func (fl *ForceLayout) Position(id string) models.Vector3 {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if b, ok := fl.bodies[id]; ok {
		return b.pos
	}
	return models.Vector3{}
}

// SetPosition moves a node and wakes the simulation. It reports whether the
// node is known.
func (fl *ForceLayout) SetPosition(id string, pos models.Vector3) bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	b, ok := fl.bodies[id]
	if !ok {
		return false
	}
	b.pos = pos
	b.vel = models.Vector3{}
	fl.reheat()
	return true
}

// Reheat restarts annealing so the next Step moves bodies again
func (fl *ForceLayout) Reheat() {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.disposed {
		return
	}
	fl.reheat()
}

// Step performs one iteration of the layout algorithm
func (fl *ForceLayout) Step() bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.disposed || fl.stable {
		return true
	}
	if len(fl.order) == 0 ||
		(fl.settings.MaxIterations > 0 && fl.iterations >= fl.settings.MaxIterations) {
		fl.stable = true
		return true
	}

	k := fl.settings.SpringLength

	// Reset forces and pull every body toward the origin
	for _, b := range fl.order {
		b.force = b.pos.Scale(-fl.settings.Gravity)
	}

	// Repulsive forces: F = k^2 / distance
	for i, b1 := range fl.order {
		for _, b2 := range fl.order[i+1:] {
			delta := b1.pos.Sub(b2.pos)
			distance := math.Max(0.1, delta.Length())
			repulsive := fl.settings.Repulsion * k * k / distance
			dir := delta.Scale(1 / distance)

			b1.force = b1.force.Add(dir.Scale(repulsive))
			b2.force = b2.force.Sub(dir.Scale(repulsive))
		}
	}

	// Attractive forces: F = distance^2 / k, stronger for heavier links
	for _, s := range fl.springs {
		if s.from == s.to {
			continue
		}
		delta := s.to.pos.Sub(s.from.pos)
		distance := math.Max(0.1, delta.Length())
		attractive := distance * distance / k * fl.settings.SpringCoeff * (1.0 + s.link.Weight)
		dir := delta.Scale(1 / distance)

		s.from.force = s.from.force.Add(dir.Scale(attractive))
		s.to.force = s.to.force.Sub(dir.Scale(attractive))
	}

	// Limit force by temperature, integrate with damping and track movement
	movement := 0.0
	for _, b := range fl.order {
		f := b.force
		if magnitude := f.Length(); magnitude > fl.temperature {
			f = f.Scale(fl.temperature / magnitude)
		}
		b.vel = b.vel.Add(f).Scale(fl.settings.Damping)
		b.pos = b.pos.Add(b.vel)
		movement += b.vel.Length()
	}

	fl.temperature *= fl.settings.Cooling
	fl.iterations++
	fl.stable = movement/float64(len(fl.order)) < fl.settings.StableThreshold

	return fl.stable
}

// Dispose unsubscribes from the graph and drops all bodies. Further calls
// are no-ops.
func (fl *ForceLayout) Dispose() {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.disposed {
		return
	}
	fl.disposed = true
	if fl.unsubscribe != nil {
		fl.unsubscribe()
	}
	fl.bodies = make(map[string]*body)
	fl.springs = make(map[string]*spring)
	fl.order = nil
}

func (fl *ForceLayout) onGraphChanged(changes []models.Change) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.disposed {
		return nil
	}

	structural := false
	for _, change := range changes {
		switch change.Type {
		case models.ChangeAdd:
			if change.Node != nil {
				fl.addBody(change.Node.ID)
			}
			if change.Link != nil {
				fl.addSpring(change.Link)
			}
			structural = true
		case models.ChangeRemove:
			if change.Link != nil {
				delete(fl.springs, change.Link.ID)
			}
			if change.Node != nil {
				fl.removeBody(change.Node.ID)
			}
			structural = true
		}
	}

	if structural {
		fl.reheat()
	}
	return nil
}

// reheat restarts annealing from the initial temperature
func (fl *ForceLayout) reheat() {
	fl.temperature = fl.settings.InitialTemperature
	fl.iterations = 0
	fl.stable = false
}

func (fl *ForceLayout) addBody(id string) *body {
	if b, ok := fl.bodies[id]; ok {
		return b
	}
	b := &body{id: id, pos: fl.placement(id)}
	fl.bodies[id] = b
	fl.order = append(fl.order, b)
	return b
}

func (fl *ForceLayout) removeBody(id string) {
	if _, ok := fl.bodies[id]; !ok {
		return
	}
	delete(fl.bodies, id)
	for i, b := range fl.order {
		if b.id == id {
			fl.order = append(fl.order[:i], fl.order[i+1:]...)
			break
		}
	}
	for linkID, s := range fl.springs {
		if s.from.id == id || s.to.id == id {
			delete(fl.springs, linkID)
		}
	}
}

func (fl *ForceLayout) addSpring(link *models.Link) {
	fl.springs[link.ID] = &spring{
		link: link,
		from: fl.addBody(link.FromID),
		to:   fl.addBody(link.ToID),
	}
}

// placement picks a starting point for a new body: near the centroid of
// already placed neighbours if there are any, otherwise inside a sphere that
// grows with the body count. Offsets come from seeded noise so layouts are
// reproducible.
func (fl *ForceLayout) placement(id string) models.Vector3 {
	fl.placements++
	t := float64(fl.placements) * 0.618

	offset := models.Vector3{
		X: fl.noise.Eval3(t, 0.5, 0.25),
		Y: fl.noise.Eval3(0.25, t, 0.5),
		Z: fl.noise.Eval3(0.5, 0.25, t),
	}

	var center models.Vector3
	placed := 0
	for _, link := range fl.source.LinksOf(id) {
		if b, ok := fl.bodies[link.Other(id)]; ok && b.id != id {
			center = center.Add(b.pos)
			placed++
		}
	}
	if placed > 0 {
		return center.Scale(1 / float64(placed)).Add(offset.Scale(fl.settings.SpringLength))
	}

	radius := fl.settings.SpringLength * (1 + math.Cbrt(float64(len(fl.bodies))))
	return offset.Scale(radius)
}
