package edges

import (
	"iter"
	"math/bits"

	"github.com/emirpasic/gods/sets/linkedhashset"

	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// Mask is a subset of the universe; bit i stands for [Universe.EdgeAt](i).
type Mask = uint64

// Universe holds the possible edges of every node of a decomposition.
type Universe struct {
	edges    []graph.Edge
	index    map[graph.Edge]int
	possible [][]graph.Edge
	masks    []Mask
}

// Build computes the possible-edge sets of t, visiting nodes in order. The
// order must list every child before its parent.
func Build(t *ntd.NTD, order []ntd.NodeID) (*Universe, error) {
	sets := make([]*linkedhashset.Set, t.NodeCount())

	for _, p := range order {
		children := t.Children(p)
		for _, c := range children {
			if sets[c] == nil {
				return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
					"node %d visited before its child %d", p, c)
			}
		}

		switch t.Type(p) {
		case ntd.Leaf:
			s := linkedhashset.New()
			for _, v := range t.Bag(p) {
				s.Add(graph.Edge{U: v, V: v})
			}
			sets[p] = s
		case ntd.Introduce:
			s := linkedhashset.New()
			if len(children) == 1 {
				s.Add(sets[children[0]].Values()...)
			}
			if v, ok := t.UniqueVertex(p); ok {
				for _, u := range t.Bag(p) {
					s.Add(graph.Edge{U: u, V: v}.Normalize())
				}
			}
			sets[p] = s
		case ntd.Forget:
			s := linkedhashset.New()
			if len(children) == 1 {
				s.Add(sets[children[0]].Values()...)
			}
			sets[p] = s
		case ntd.Join:
			sets[p] = union(sets, children)
		}
	}

	root := sets[t.Root()]
	if root == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "order does not reach root %d", t.Root())
	}
	if err := apperrors.ValidatePossibleEdges(root.Size()); err != nil {
		return nil, err
	}

	u := &Universe{
		edges:    toEdges(root),
		index:    make(map[graph.Edge]int, root.Size()),
		possible: make([][]graph.Edge, len(sets)),
		masks:    make([]Mask, len(sets)),
	}
	for i, e := range u.edges {
		u.index[e] = i
	}
	for p, s := range sets {
		if s == nil {
			continue
		}
		u.possible[p] = toEdges(s)
		for _, e := range u.possible[p] {
			u.masks[p] |= 1 << u.index[e]
		}
	}
	return u, nil
}

// union merges the children's sets into a copy of the larger one.
func union(sets []*linkedhashset.Set, children []ntd.NodeID) *linkedhashset.Set {
	s := linkedhashset.New()
	switch len(children) {
	case 0:
		return s
	case 1:
		s.Add(sets[children[0]].Values()...)
		return s
	}
	big, small := sets[children[0]], sets[children[1]]
	if small.Size() > big.Size() {
		big, small = small, big
	}
	s.Add(big.Values()...)
	s.Add(small.Values()...)
	return s
}

func toEdges(s *linkedhashset.Set) []graph.Edge {
	out := make([]graph.Edge, 0, s.Size())
	for _, v := range s.Values() {
		out = append(out, v.(graph.Edge))
	}
	return out
}

// Len returns the number of possible edges at the root.
func (u *Universe) Len() int { return len(u.edges) }

// Edges returns the universe in index order.
func (u *Universe) Edges() []graph.Edge {
	out := make([]graph.Edge, len(u.edges))
	copy(out, u.edges)
	return out
}

// Full returns the mask with every edge of the universe set.
func (u *Universe) Full() Mask {
	if len(u.edges) == 64 {
		return ^Mask(0)
	}
	return 1<<len(u.edges) - 1
}

// IndexOf returns the index of e in either orientation.
func (u *Universe) IndexOf(e graph.Edge) (int, bool) {
	i, ok := u.index[e.Normalize()]
	return i, ok
}

// EdgeAt returns the i-th edge of the universe.
func (u *Universe) EdgeAt(i int) graph.Edge { return u.edges[i] }

// Mask encodes a set of edges. Every edge must belong to the universe.
func (u *Universe) Mask(es []graph.Edge) (Mask, error) {
	var m Mask
	for _, e := range es {
		i, ok := u.IndexOf(e)
		if !ok {
			return 0, apperrors.New(apperrors.ErrCodeInvalidInput,
				"edge %s is not a possible edge of the decomposition", e)
		}
		m |= 1 << i
	}
	return m, nil
}

// Graph decodes m into a graph. The vertex count is raised if an edge of
// the universe lies beyond vertexCount.
func (u *Universe) Graph(m Mask, vertexCount int) *graph.Graph {
	for _, e := range u.edges {
		vertexCount = max(vertexCount, e.V+1)
	}
	b := graph.NewBuilder(vertexCount)
	for i, e := range u.edges {
		if m&(1<<i) != 0 {
			if err := b.AddEdge(e.U, e.V); err != nil {
				panic(err)
			}
		}
	}
	return b.Build()
}

// Possible returns the possible edges of p in insertion order. The returned
// slice must not be modified.
func (u *Universe) Possible(p ntd.NodeID) []graph.Edge { return u.possible[p] }

// PossibleMask returns the possible edges of p as a mask over the universe.
func (u *Universe) PossibleMask(p ntd.NodeID) Mask { return u.masks[p] }

// Intersect returns the edges present in both a and b.
func Intersect(a, b Mask) Mask { return a & b }

// Size returns the number of edges in m.
func Size(m Mask) int { return bits.OnesCount64(m) }

// Submasks yields every subset of m, starting with m itself and ending
// with 0.
func Submasks(m Mask) iter.Seq[Mask] {
	return func(yield func(Mask) bool) {
		sub := m
		for {
			if !yield(sub) {
				return
			}
			if sub == 0 {
				return
			}
			sub = (sub - 1) & m
		}
	}
}
