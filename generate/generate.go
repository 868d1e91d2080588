// Package generate builds well-known graph shapes and mutates graphs over
// time for demos and benchmarks.
package generate

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/TFMV/echograph3d/graph"
)

// ErrInvalidSize is returned when a generator is asked for a negative size
var ErrInvalidSize = errors.New("generate: invalid size")

// Grid creates a rows x cols lattice. Node ids are "r,c".
func Grid(rows, cols int) (*graph.Graph, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidSize, rows, cols)
	}

	g := graph.New()
	for r := range rows {
		for c := range cols {
			id := gridID(r, c)
			if _, err := g.AddNode(id, nil); err != nil {
				return nil, err
			}
			if c > 0 {
				if _, err := g.AddLink(gridID(r, c-1), id, nil); err != nil {
					return nil, err
				}
			}
			if r > 0 {
				if _, err := g.AddLink(gridID(r-1, c), id, nil); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

func gridID(r, c int) string {
	return strconv.Itoa(r) + "," + strconv.Itoa(c)
}

// Path creates n nodes "0".."n-1" joined in a chain
func Path(n int) (*graph.Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: path of %d", ErrInvalidSize, n)
	}

	g := graph.New()
	for i := range n {
		if _, err := g.AddNode(strconv.Itoa(i), nil); err != nil {
			return nil, err
		}
		if i > 0 {
			if _, err := g.AddLink(strconv.Itoa(i-1), strconv.Itoa(i), nil); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Complete creates n nodes with a link between every pair
func Complete(n int) (*graph.Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: complete graph of %d", ErrInvalidSize, n)
	}

	g := graph.New()
	for i := range n {
		if _, err := g.AddNode(strconv.Itoa(i), nil); err != nil {
			return nil, err
		}
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			if _, err := g.AddLink(strconv.Itoa(i), strconv.Itoa(j), nil); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Build creates a graph by shape name: "grid" uses both sizes, "path" and
// "complete" use the first.
func Build(shape string, n, m int) (*graph.Graph, error) {
	switch shape {
	case "grid":
		return Grid(n, m)
	case "path":
		return Path(n)
	case "complete":
		return Complete(n)
	default:
		return nil, fmt.Errorf("unsupported shape: %s", shape)
	}
}
