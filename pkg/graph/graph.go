package graph

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

var (
	// ErrVertexOutOfRange is returned when an edge endpoint is not in 0..n-1.
	ErrVertexOutOfRange = errors.New("vertex out of range")

	// ErrNegativeSize is returned when a graph is created with a negative
	// vertex count.
	ErrNegativeSize = errors.New("negative vertex count")
)

// Edge is an undirected edge. U == V denotes a self-loop.
type Edge struct {
	U, V int
}

// Normalize returns the edge with U <= V.
func (e Edge) Normalize() Edge {
	if e.U > e.V {
		return Edge{U: e.V, V: e.U}
	}
	return e
}

// IsLoop reports whether the edge is a self-loop.
func (e Edge) IsLoop() bool { return e.U == e.V }

// Has reports whether v is an endpoint of e.
func (e Edge) Has(v int) bool { return e.U == v || e.V == v }

// Other returns the endpoint opposite to v. For a loop it returns v.
func (e Edge) Other(v int) int {
	if e.U == v {
		return e.V
	}
	return e.U
}

// SameAs reports whether e and o denote the same undirected edge.
func (e Edge) SameAs(o Edge) bool { return e.Normalize() == o.Normalize() }

func (e Edge) String() string { return fmt.Sprintf("(%d,%d)", e.U, e.V) }

// Graph is an immutable undirected graph with optional self-loops.
type Graph struct {
	n      int
	words  int
	matrix []uint64
	adj    [][]int
	edges  []Edge
}

// Builder accumulates edges for a [Graph].
type Builder struct {
	n     int
	seen  map[Edge]bool
	edges []Edge
}

// NewBuilder returns a Builder for a graph on n vertices.
func NewBuilder(n int) *Builder {
	return &Builder{n: n, seen: make(map[Edge]bool)}
}

// AddEdge adds the undirected edge {u, v}. Duplicates are ignored.
func (b *Builder) AddEdge(u, v int) error {
	if u < 0 || u >= b.n || v < 0 || v >= b.n {
		return fmt.Errorf("%w: (%d,%d) with %d vertices", ErrVertexOutOfRange, u, v, b.n)
	}
	e := Edge{U: u, V: v}.Normalize()
	if b.seen[e] {
		return nil
	}
	b.seen[e] = true
	b.edges = append(b.edges, e)
	return nil
}

// Build freezes the collected edges into a Graph.
func (b *Builder) Build() *Graph {
	n := max(b.n, 0)
	words := (n + 63) / 64
	g := &Graph{
		n:      n,
		words:  words,
		matrix: make([]uint64, n*words),
		adj:    make([][]int, n),
		edges:  slices.Clone(b.edges),
	}
	slices.SortFunc(g.edges, compareEdges)
	for _, e := range g.edges {
		g.set(e.U, e.V)
		g.adj[e.U] = append(g.adj[e.U], e.V)
		if !e.IsLoop() {
			g.set(e.V, e.U)
			g.adj[e.V] = append(g.adj[e.V], e.U)
		}
	}
	for _, nb := range g.adj {
		slices.Sort(nb)
	}
	return g
}

// New builds a graph on n vertices with the given edges.
func New(n int, edges ...Edge) (*Graph, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	b := NewBuilder(n)
	for _, e := range edges {
		if err := b.AddEdge(e.U, e.V); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// MustNew is like [New] but panics on error. Intended for fixtures.
func MustNew(n int, edges ...Edge) *Graph {
	g, err := New(n, edges...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) set(u, v int) {
	g.matrix[u*g.words+v/64] |= 1 << (uint(v) % 64)
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return g.n }

// EdgeCount returns the number of undirected edges, loops included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// LoopCount returns the number of self-loops.
func (g *Graph) LoopCount() int {
	c := 0
	for _, e := range g.edges {
		if e.IsLoop() {
			c++
		}
	}
	return c
}

// HasEdge reports whether {u, v} is an edge. Out-of-range vertices have no edges.
func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || u >= g.n || v < 0 || v >= g.n {
		return false
	}
	return g.matrix[u*g.words+v/64]&(1<<(uint(v)%64)) != 0
}

// HasLoop reports whether v carries a self-loop.
func (g *Graph) HasLoop(v int) bool { return g.HasEdge(v, v) }

// Neighbors returns the sorted neighbors of v, including v itself when v has
// a loop. The returned slice must not be modified.
func (g *Graph) Neighbors(v int) []int {
	if v < 0 || v >= g.n {
		return nil
	}
	return g.adj[v]
}

// Degree returns the number of neighbors of v.
func (g *Graph) Degree(v int) int { return len(g.Neighbors(v)) }

// Edges returns the normalized edges sorted by (U, V).
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Equal reports whether g and o have the same vertex count and edge set.
func (g *Graph) Equal(o *Graph) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.n == o.n && slices.Equal(g.matrix, o.matrix)
}

// Density returns the number of set bits in the adjacency matrix divided by n^2.
func (g *Graph) Density() float64 {
	if g.n == 0 {
		return 0
	}
	set := 0
	for _, w := range g.matrix {
		set += bits.OnesCount64(w)
	}
	return float64(set) / float64(g.n*g.n)
}

// String returns a compact representation such as "3: 0-1 1-2 2-2".
func (g *Graph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:", g.n)
	for _, e := range g.edges {
		fmt.Fprintf(&sb, " %d-%d", e.U, e.V)
	}
	return sb.String()
}

func compareEdges(a, b Edge) int {
	if a.U != b.U {
		return a.U - b.U
	}
	return a.V - b.V
}
