package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/TFMV/echograph3d/graph"
	"github.com/TFMV/echograph3d/models"
)

// Poster runs a function on the goroutine that owns the graph
type Poster interface {
	Post(ctx context.Context, fn func()) error
}

// AnimatorOptions configures an Animator
type AnimatorOptions struct {
	// MaxNodes caps the graph size; above it the animator only removes
	MaxNodes int
	// MinNodes is the size below which the animator only adds
	MinNodes int
	// Seed makes the mutation sequence reproducible
	Seed   uint64
	Logger *slog.Logger
}

// Animator grows and shrinks a graph one node at a time. New nodes are
// linked to a random existing node.
type Animator struct {
	graph  *graph.Graph
	rng    *rand.Rand
	opts   AnimatorOptions
	next   int
	logger *slog.Logger
}

// NewAnimator creates an animator for g
func NewAnimator(g *graph.Graph, opts AnimatorOptions) *Animator {
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = 100
	}
	if opts.MinNodes < 0 || opts.MinNodes > opts.MaxNodes {
		opts.MinNodes = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Animator{
		graph:  g,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		opts:   opts,
		next:   g.NodeCount(),
		logger: logger,
	}
}

// Step applies one mutation
func (a *Animator) Step() error {
	ids := a.nodeIDs()
	grow := len(ids) < a.opts.MinNodes || len(ids) == 0 ||
		(len(ids) < a.opts.MaxNodes && a.rng.IntN(3) > 0)

	if grow {
		return a.add(ids)
	}
	return a.remove(ids)
}

func (a *Animator) add(ids []string) error {
	id := a.freshID()
	if len(ids) == 0 {
		_, err := a.graph.AddNode(id, nil)
		return err
	}
	target := ids[a.rng.IntN(len(ids))]
	if _, err := a.graph.AddLink(target, id, nil); err != nil {
		return fmt.Errorf("failed to add node %s: %w", id, err)
	}
	a.logger.Debug("animator added node", "id", id, "linked_to", target)
	return nil
}

func (a *Animator) remove(ids []string) error {
	id := ids[a.rng.IntN(len(ids))]
	if _, err := a.graph.RemoveNode(id); err != nil {
		return fmt.Errorf("failed to remove node %s: %w", id, err)
	}
	a.logger.Debug("animator removed node", "id", id)
	return nil
}

func (a *Animator) freshID() string {
	for {
		id := fmt.Sprintf("n%d", a.next)
		a.next++
		if _, exists := a.graph.GetNode(id); !exists {
			return id
		}
	}
}

func (a *Animator) nodeIDs() []string {
	ids := make([]string, 0, a.graph.NodeCount())
	a.graph.ForEachNode(func(n *models.Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Run posts a Step to p every interval until ctx is done. Mutation errors
// are logged and do not stop the animation.
func (a *Animator) Run(ctx context.Context, p Poster, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := p.Post(ctx, func() {
				if err := a.Step(); err != nil {
					a.logger.Warn("graph mutation failed", "error", err)
				}
			})
			if err != nil {
				return err
			}
		}
	}
}
