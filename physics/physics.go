// Package physics provides the layout simulation that positions graph nodes
// in 3D space.
package physics

import (
	"errors"
	"fmt"

	"github.com/TFMV/echograph3d/graph"
	"github.com/TFMV/echograph3d/models"
)

// ErrInvalidSettings is returned when a layout is built from malformed settings
var ErrInvalidSettings = errors.New("physics: invalid settings")

// Simulator is a step-based layout engine
type Simulator interface {
	// Step advances the simulation by one tick and reports whether positions
	// have converged. Once converged it keeps returning true without doing
	// work until the topology changes.
	Step() bool
	// Position returns the current position of a node
	Position(id string) models.Vector3
	// Dispose releases all simulation state
	Dispose()
}

// Reheater is implemented by simulators that can be told to settle again
// without a topology change
type Reheater interface {
	Reheat()
}

// Source is the graph view a layout needs
type Source interface {
	ForEachNode(fn func(node *models.Node) bool)
	ForEachLink(fn func(link *models.Link) bool)
	LinksOf(nodeID string) []*models.Link
	On(fn graph.Listener) (unsubscribe func())
}

// Settings tunes the force-directed simulation. Zero fields take defaults.
type Settings struct {
	SpringLength       float64 `toml:"spring_length"`       // ideal link length
	SpringCoeff        float64 `toml:"spring_coeff"`        // spring stiffness
	Repulsion          float64 `toml:"repulsion"`           // node repulsion strength
	Gravity            float64 `toml:"gravity"`             // pull toward the origin
	Damping            float64 `toml:"damping"`             // velocity retained per step
	InitialTemperature float64 `toml:"initial_temperature"` // max displacement on a fresh start
	Cooling            float64 `toml:"cooling"`             // temperature multiplier per step
	StableThreshold    float64 `toml:"stable_threshold"`    // average movement treated as converged
	MaxIterations      int     `toml:"max_iterations"`      // 0 means unbounded
	Seed               int64   `toml:"seed"`                // noise seed for initial placement
}

// DefaultSettings returns the default simulation parameters
func DefaultSettings() Settings {
	return Settings{
		SpringLength:       30,
		SpringCoeff:        0.5,
		Repulsion:          1.0,
		Gravity:            0.01,
		Damping:            0.9,
		InitialTemperature: 10,
		Cooling:            0.95,
		StableThreshold:    0.01,
		Seed:               1,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.SpringLength != 0 {
		d.SpringLength = s.SpringLength
	}
	if s.SpringCoeff != 0 {
		d.SpringCoeff = s.SpringCoeff
	}
	if s.Repulsion != 0 {
		d.Repulsion = s.Repulsion
	}
	if s.Gravity != 0 {
		d.Gravity = s.Gravity
	}
	if s.Damping != 0 {
		d.Damping = s.Damping
	}
	if s.InitialTemperature != 0 {
		d.InitialTemperature = s.InitialTemperature
	}
	if s.Cooling != 0 {
		d.Cooling = s.Cooling
	}
	if s.StableThreshold != 0 {
		d.StableThreshold = s.StableThreshold
	}
	if s.Seed != 0 {
		d.Seed = s.Seed
	}
	d.MaxIterations = s.MaxIterations
	return d
}

// Validate reports the first malformed parameter
func (s Settings) Validate() error {
	switch {
	case s.SpringLength <= 0:
		return fmt.Errorf("%w: spring length must be positive, got %v", ErrInvalidSettings, s.SpringLength)
	case s.SpringCoeff < 0:
		return fmt.Errorf("%w: spring coefficient must not be negative, got %v", ErrInvalidSettings, s.SpringCoeff)
	case s.Repulsion < 0:
		return fmt.Errorf("%w: repulsion must not be negative, got %v", ErrInvalidSettings, s.Repulsion)
	case s.Gravity < 0:
		return fmt.Errorf("%w: gravity must not be negative, got %v", ErrInvalidSettings, s.Gravity)
	case s.Damping < 0 || s.Damping >= 1:
		return fmt.Errorf("%w: damping must be in [0, 1), got %v", ErrInvalidSettings, s.Damping)
	case s.InitialTemperature <= 0:
		return fmt.Errorf("%w: initial temperature must be positive, got %v", ErrInvalidSettings, s.InitialTemperature)
	case s.Cooling <= 0 || s.Cooling > 1:
		return fmt.Errorf("%w: cooling must be in (0, 1], got %v", ErrInvalidSettings, s.Cooling)
	case s.StableThreshold <= 0:
		return fmt.Errorf("%w: stable threshold must be positive, got %v", ErrInvalidSettings, s.StableThreshold)
	case s.MaxIterations < 0:
		return fmt.Errorf("%w: max iterations must not be negative, got %d", ErrInvalidSettings, s.MaxIterations)
	}
	return nil
}
