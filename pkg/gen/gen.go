// Package gen generates benchmark decompositions and graphs: path and
// complete decompositions, paths whose possible-edge count can be tuned, and
// random, complete and cyclic target graphs.
package gen

import (
	"math/rand/v2"

	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// chain builds a decomposition from nodes listed bottom-up; each node is the
// parent of the one before it.
type chain struct {
	b    *ntd.Builder
	next ntd.NodeID
	err  error
}

func newChain(vertices int) *chain {
	return &chain{b: ntd.NewBuilder(vertices)}
}

func (c *chain) add(typ ntd.NodeType, bag ...ntd.Vertex) {
	if c.err != nil {
		return
	}
	id := c.next
	if c.err = c.b.AddNode(id, typ, bag); c.err != nil {
		return
	}
	if id > 0 {
		c.err = c.b.AddChild(id, id-1)
	}
	c.next++
}

func (c *chain) build() (*ntd.NTD, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.b.Build()
}

func atLeast(what string, n, min int) error {
	if n < min {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "%s must be at least %d, got %d", what, min, n)
	}
	return nil
}

// PathNTD returns a width-1 decomposition of a path on n vertices with 2n
// nodes and 2n-1 possible edges.
func PathNTD(n int) (*ntd.NTD, error) {
	if err := atLeast("vertices", n, 1); err != nil {
		return nil, err
	}
	c := newChain(n)
	c.add(ntd.Leaf, 0)
	for v := 1; v < n; v++ {
		c.add(ntd.Introduce, v-1, v)
		c.add(ntd.Forget, v)
	}
	c.add(ntd.Forget)
	return c.build()
}

// CompleteNTD returns a decomposition whose largest bag holds all n
// vertices, so every pair and every loop is a possible edge.
func CompleteNTD(n int) (*ntd.NTD, error) {
	if err := atLeast("vertices", n, 1); err != nil {
		return nil, err
	}
	c := newChain(n)
	bag := []ntd.Vertex{0}
	c.add(ntd.Leaf, bag...)
	for v := 1; v < n; v++ {
		bag = append(bag, v)
		c.add(ntd.Introduce, bag...)
	}
	for k := n - 1; k >= 0; k-- {
		c.add(ntd.Forget, bag[:k]...)
	}
	return c.build()
}

// PossibleEdgePath returns a path-shaped decomposition on n vertices with
// n+extra possible edges: the first extra steps keep the previous vertex in
// the bag, the remaining ones empty the bag before introducing the next
// vertex. extra must lie in [0, n).
func PossibleEdgePath(n, extra int) (*ntd.NTD, error) {
	if err := atLeast("vertices", n, 1); err != nil {
		return nil, err
	}
	if extra < 0 || extra >= n {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "extra edges must be in [0, %d), got %d", n, extra)
	}
	c := newChain(n)
	c.add(ntd.Leaf, 0)
	for v := 1; v < n; v++ {
		if v <= extra {
			c.add(ntd.Introduce, v-1, v)
			c.add(ntd.Forget, v)
		} else {
			c.add(ntd.Forget)
			c.add(ntd.Introduce, v)
		}
	}
	c.add(ntd.Forget)
	return c.build()
}

// RandomGraph returns a graph on n vertices with m distinct edges drawn
// uniformly from all pairs, loops included.
func RandomGraph(n, m int, rng *rand.Rand) (*graph.Graph, error) {
	if err := atLeast("vertices", n, 1); err != nil {
		return nil, err
	}
	if limit := n * (n + 1) / 2; m < 0 || m > limit {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "edges must be in [0, %d], got %d", limit, m)
	}
	b := graph.NewBuilder(n)
	seen := make(map[graph.Edge]bool, m)
	for len(seen) < m {
		e := graph.Edge{U: rng.IntN(n), V: rng.IntN(n)}.Normalize()
		if seen[e] {
			continue
		}
		seen[e] = true
		if err := b.AddEdge(e.U, e.V); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Clique returns the complete graph on n vertices, with a loop on every
// vertex if loops is set.
func Clique(n int, loops bool) (*graph.Graph, error) {
	if err := atLeast("vertices", n, 0); err != nil {
		return nil, err
	}
	b := graph.NewBuilder(n)
	for u := range n {
		for v := u; v < n; v++ {
			if u == v && !loops {
				continue
			}
			if err := b.AddEdge(u, v); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}

// Cycle returns the cycle on n >= 3 vertices.
func Cycle(n int) (*graph.Graph, error) {
	if err := atLeast("vertices", n, 3); err != nil {
		return nil, err
	}
	b := graph.NewBuilder(n)
	for v := range n {
		if err := b.AddEdge(v, (v+1)%n); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Path returns the path on n vertices.
func Path(n int) (*graph.Graph, error) {
	if err := atLeast("vertices", n, 1); err != nil {
		return nil, err
	}
	b := graph.NewBuilder(n)
	for v := 1; v < n; v++ {
		if err := b.AddEdge(v-1, v); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
