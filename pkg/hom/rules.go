package hom

import (
	"context"
	"math/bits"
	"slices"

	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/intfunc"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// masksOf returns the edge subsets a node table is filled for: 0 for the
// basic variant, every subset of the node's possible edges otherwise.
func masksOf(u *edges.Universe, p ntd.NodeID) []edges.Mask {
	if u == nil {
		return []edges.Mask{0}
	}
	return slices.Collect(edges.Submasks(u.PossibleMask(p)))
}

// childMask restricts m to the possible edges of child q.
func childMask(u *edges.Universe, q ntd.NodeID, m edges.Mask) edges.Mask {
	if u == nil {
		return 0
	}
	return edges.Intersect(m, u.PossibleMask(q))
}

// leaf fills the table of a Leaf {v}. A looped v may only map to looped
// targets.
func (e *Engine) leaf(ctx context.Context, p ntd.NodeID, h *graph.Graph, u *edges.Universe) (table, error) {
	if n := len(e.t.Children(p)); n != 0 {
		return nil, e.violation(p, "leaf has %d children", n)
	}
	v, ok := e.t.UniqueVertex(p)
	if !ok {
		return nil, e.bagViolation(p, 1, "leaf bag must hold one vertex")
	}

	var masks []edges.Mask
	var looped []bool
	if u == nil {
		masks, looped = []edges.Mask{0}, []bool{h.HasLoop(v)}
	} else {
		i, ok := u.IndexOf(graph.Edge{U: v, V: v})
		if !ok {
			return nil, e.violation(p, "loop of vertex %d is not a possible edge", v)
		}
		masks, looped = []edges.Mask{0, 1 << i}, []bool{false, true}
	}

	size, err := e.tableSize(p, len(masks))
	if err != nil {
		return nil, err
	}
	return e.fill(ctx, masks, size, func(i int, f intfunc.Mapping) (uint64, error) {
		if looped[i] && !e.g.HasLoop(int(f)) {
			return 0, nil
		}
		return 1, nil
	})
}

// introduce fills the table of p = q + {v}. A mapping f of bag(p) inherits
// the count of f without v when the image of v is adjacent to the images of
// all neighbors of v in bag(p), itself included when v is looped.
func (e *Engine) introduce(ctx context.Context, p ntd.NodeID, h *graph.Graph, u *edges.Universe) (table, error) {
	q, ok := e.t.UniqueChild(p)
	if !ok {
		return nil, e.violation(p, "introduce node needs exactly one child")
	}
	want := len(e.t.Bag(q)) + 1
	v, ok := e.t.UniqueVertex(p)
	if !ok {
		return nil, e.bagViolation(p, want, "bag is not the child's bag plus one vertex")
	}
	child := e.tables[q]
	if child == nil {
		return nil, e.missing(p, q, 0)
	}
	sig, _ := e.t.Significance(p, v)

	masks := masksOf(u, p)
	src := make([][]uint64, len(masks))
	nbrs := make([][]int, len(masks))
	for i, m := range masks {
		cm := childMask(u, q, m)
		if src[i], ok = child[cm]; !ok {
			return nil, e.missing(p, q, cm)
		}
		if u == nil {
			nbrs[i] = e.neighborSignificances(p, func(w int) bool { return h.HasEdge(v, w) })
		} else {
			nbrs[i] = e.neighborSignificances(p, func(w int) bool {
				j, ok := u.IndexOf(graph.Edge{U: v, V: w})
				return ok && m&(1<<j) != 0
			})
		}
	}

	size, err := e.tableSize(p, len(masks))
	if err != nil {
		return nil, err
	}
	codec := e.codec
	return e.fill(ctx, masks, size, func(i int, f intfunc.Mapping) (uint64, error) {
		a := int(codec.Digit(f, sig))
		for _, s := range nbrs[i] {
			if !e.g.HasEdge(a, int(codec.Digit(f, s))) {
				return 0, nil
			}
		}
		return src[i][codec.Remove(f, sig)], nil
	})
}

// neighborSignificances returns the significances in bag(p) of every bag
// vertex w with adjacent(w).
func (e *Engine) neighborSignificances(p ntd.NodeID, adjacent func(int) bool) []int {
	var out []int
	for s, w := range e.t.Bag(p) {
		if adjacent(w) {
			out = append(out, s)
		}
	}
	return out
}

// forget fills the table of p = q - {v} by summing over the images of v.
func (e *Engine) forget(ctx context.Context, p ntd.NodeID, u *edges.Universe) (table, error) {
	q, ok := e.t.UniqueChild(p)
	if !ok {
		return nil, e.violation(p, "forget node needs exactly one child")
	}
	v, ok := e.t.UniqueVertex(p)
	if !ok {
		return nil, e.bagViolation(p, len(e.t.Bag(q))-1, "bag is not the child's bag minus one vertex")
	}
	child := e.tables[q]
	if child == nil {
		return nil, e.missing(p, q, 0)
	}
	sig, _ := e.t.Significance(q, v)

	masks := masksOf(u, p)
	src := make([][]uint64, len(masks))
	for i, m := range masks {
		cm := childMask(u, q, m)
		if src[i], ok = child[cm]; !ok {
			return nil, e.missing(p, q, cm)
		}
	}

	size, err := e.tableSize(p, len(masks))
	if err != nil {
		return nil, err
	}
	codec, n := e.codec, e.codec.Base()
	return e.fill(ctx, masks, size, func(i int, f intfunc.Mapping) (uint64, error) {
		var sum, carry uint64
		for a := range n {
			sum, carry = bits.Add64(sum, src[i][codec.Insert(f, sig, a)], 0)
			if carry != 0 {
				return 0, overflow(p, f)
			}
		}
		return sum, nil
	})
}

// join multiplies the counts of both children mapping for mapping.
func (e *Engine) join(ctx context.Context, p ntd.NodeID, u *edges.Universe) (table, error) {
	children := e.t.Children(p)
	if len(children) != 2 {
		return nil, e.violation(p, "join node has %d children", len(children))
	}
	q1, q2 := children[0], children[1]
	want := len(e.t.Bag(p))
	for _, q := range children {
		if got := len(e.t.Bag(q)); got != want {
			v := e.bagViolation(p, want, "child %d does not share the join bag", q)
			v.GotBag = got
			return nil, v
		}
	}
	left, right := e.tables[q1], e.tables[q2]
	if left == nil {
		return nil, e.missing(p, q1, 0)
	}
	if right == nil {
		return nil, e.missing(p, q2, 0)
	}

	masks := masksOf(u, p)
	src1 := make([][]uint64, len(masks))
	src2 := make([][]uint64, len(masks))
	var ok bool
	for i, m := range masks {
		m1, m2 := childMask(u, q1, m), childMask(u, q2, m)
		if src1[i], ok = left[m1]; !ok {
			return nil, e.missing(p, q1, m1)
		}
		if src2[i], ok = right[m2]; !ok {
			return nil, e.missing(p, q2, m2)
		}
	}

	size, err := e.tableSize(p, len(masks))
	if err != nil {
		return nil, err
	}
	return e.fill(ctx, masks, size, func(i int, f intfunc.Mapping) (uint64, error) {
		hi, lo := bits.Mul64(src1[i][f], src2[i][f])
		if hi != 0 {
			return 0, overflow(p, f)
		}
		return lo, nil
	})
}
