package ntd

import (
	"errors"
	"fmt"
	"slices"

	apperrors "github.com/matzehuels/homcount/pkg/errors"
)

var (
	// ErrUnknownNode is returned when an adjacency record names a node that
	// was never defined.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode is returned when the same node id is defined twice.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrSecondParent is returned when a node is attached to a second parent.
	ErrSecondParent = errors.New("node already has a parent")

	// ErrTooManyChildren is returned when a node is given a third child.
	ErrTooManyChildren = errors.New("node has more than two children")

	// ErrNoRoot is returned when every node has a parent.
	ErrNoRoot = errors.New("decomposition has no root")

	// ErrMultipleRoots is returned when more than one node has no parent.
	ErrMultipleRoots = errors.New("decomposition has more than one root")

	// ErrEmpty is returned by Build when no nodes were added.
	ErrEmpty = errors.New("decomposition has no nodes")
)

// NodeID is a handle to a node in the decomposition arena.
type NodeID int

// None marks a missing node, such as the parent of the root.
const None NodeID = -1

// Vertex is a 0-indexed pattern vertex.
type Vertex = int

// NodeType tags the four kinds of nice decomposition nodes.
type NodeType uint8

const (
	Leaf NodeType = iota
	Introduce
	Forget
	Join
)

var typeNames = [...]string{"leaf", "introduce", "forget", "join"}

func (t NodeType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", t)
}

// Symbol returns the single-letter code used in .ntd files.
func (t NodeType) Symbol() byte {
	return "lifj"[t]
}

// ParseNodeType maps an .ntd type letter to a NodeType.
func ParseNodeType(s string) (NodeType, bool) {
	switch s {
	case "l":
		return Leaf, true
	case "i":
		return Introduce, true
	case "f":
		return Forget, true
	case "j":
		return Join, true
	}
	return 0, false
}

type node struct {
	typ      NodeType
	bag      []Vertex
	children []NodeID
	parent   NodeID
}

// NTD is an immutable nice tree decomposition.
type NTD struct {
	nodes       []node
	root        NodeID
	vertexCount int
	maxBag      int
}

// Root returns the root node.
func (t *NTD) Root() NodeID { return t.root }

// NodeCount returns the number of nodes.
func (t *NTD) NodeCount() int { return len(t.nodes) }

// VertexCount returns the number of pattern vertices. It is the larger of the
// declared count and one past the largest vertex in any bag.
func (t *NTD) VertexCount() int { return t.vertexCount }

// MaxBagSize returns the size of the largest bag.
func (t *NTD) MaxBagSize() int { return t.maxBag }

// Width returns the decomposition width, the largest bag size minus one.
func (t *NTD) Width() int { return t.maxBag - 1 }

// Nodes returns all node handles in id order.
func (t *NTD) Nodes() []NodeID {
	ids := make([]NodeID, len(t.nodes))
	for i := range ids {
		ids[i] = NodeID(i)
	}
	return ids
}

// Has reports whether p is a node of t.
func (t *NTD) Has(p NodeID) bool { return p >= 0 && int(p) < len(t.nodes) }

// Type returns the type of p.
func (t *NTD) Type(p NodeID) NodeType { return t.nodes[p].typ }

// Bag returns the sorted bag of p. The returned slice must not be modified.
func (t *NTD) Bag(p NodeID) []Vertex { return t.nodes[p].bag }

// Children returns the children of p in insertion order.
func (t *NTD) Children(p NodeID) []NodeID { return t.nodes[p].children }

// Parent returns the parent of p, or [None] for the root.
func (t *NTD) Parent(p NodeID) NodeID { return t.nodes[p].parent }

// UniqueChild returns the only child of an Introduce or Forget node.
func (t *NTD) UniqueChild(p NodeID) (NodeID, bool) {
	n := &t.nodes[p]
	if (n.typ != Introduce && n.typ != Forget) || len(n.children) != 1 {
		return None, false
	}
	return n.children[0], true
}

// UniqueVertex returns the vertex introduced or forgotten at p, or the only
// bag member of a Leaf. It reports false for joins and for nodes whose bags
// do not differ from their child's by exactly that vertex.
func (t *NTD) UniqueVertex(p NodeID) (Vertex, bool) {
	n := &t.nodes[p]
	switch n.typ {
	case Leaf:
		if len(n.bag) != 1 {
			return 0, false
		}
		return n.bag[0], true
	case Introduce:
		if len(n.children) != 1 {
			return 0, false
		}
		return difference(n.bag, t.nodes[n.children[0]].bag)
	case Forget:
		if len(n.children) != 1 {
			return 0, false
		}
		return difference(t.nodes[n.children[0]].bag, n.bag)
	}
	return 0, false
}

// Significance returns the rank of v in the sorted bag of p.
func (t *NTD) Significance(p NodeID, v Vertex) (int, bool) {
	return slices.BinarySearch(t.nodes[p].bag, v)
}

// difference returns the single vertex in big that is missing from small.
// Both slices are sorted.
func difference(big, small []Vertex) (Vertex, bool) {
	if len(big) != len(small)+1 {
		return 0, false
	}
	found, missing := false, 0
	i := 0
	for _, v := range big {
		if i < len(small) && small[i] == v {
			i++
			continue
		}
		if found {
			return 0, false
		}
		found, missing = true, v
	}
	if !found || i != len(small) {
		return 0, false
	}
	return missing, true
}

// Builder collects node and adjacency records for an [NTD].
type Builder struct {
	vertexCount int
	nodes       map[NodeID]*node
	edges       [][2]NodeID
	parents     map[NodeID]NodeID
}

// NewBuilder returns an empty Builder. vertexCount is the declared number of
// pattern vertices; bags may raise it.
func NewBuilder(vertexCount int) *Builder {
	return &Builder{
		vertexCount: vertexCount,
		nodes:       make(map[NodeID]*node),
		parents:     make(map[NodeID]NodeID),
	}
}

// AddNode defines node id with the given type and bag. The bag is copied,
// sorted and deduplicated.
func (b *Builder) AddNode(id NodeID, typ NodeType, bag []Vertex) error {
	if id < 0 {
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrUnknownNode, "negative node id %d", id)
	}
	if _, ok := b.nodes[id]; ok {
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrDuplicateNode, "node %d", id)
	}
	if typ > Join {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "node %d: invalid type %d", id, typ)
	}
	sorted := slices.Clone(bag)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for _, v := range sorted {
		if v < 0 {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "node %d: negative vertex %d", id, v)
		}
	}
	b.nodes[id] = &node{typ: typ, bag: sorted, parent: None}
	return nil
}

// AddChild attaches child below parent. Both nodes may be defined later;
// dangling references are reported by Build.
func (b *Builder) AddChild(parent, child NodeID) error {
	if parent == child {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "node %d cannot be its own child", parent)
	}
	if prev, ok := b.parents[child]; ok {
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrSecondParent,
			"node %d has parents %d and %d", child, prev, parent)
	}
	b.parents[child] = parent
	b.edges = append(b.edges, [2]NodeID{parent, child})
	return nil
}

// Build validates the collected records and returns the decomposition.
func (b *Builder) Build() (*NTD, error) {
	if len(b.nodes) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrEmpty, "build")
	}

	n := len(b.nodes)
	for id := range b.nodes {
		if int(id) >= n {
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
				"node ids must be 0..%d, got %d", n-1, id)
		}
	}

	t := &NTD{nodes: make([]node, n), root: None, vertexCount: b.vertexCount}
	for id, nd := range b.nodes {
		t.nodes[id] = *nd
		t.nodes[id].children = nil
		t.maxBag = max(t.maxBag, len(nd.bag))
		if k := len(nd.bag); k > 0 {
			t.vertexCount = max(t.vertexCount, nd.bag[k-1]+1)
		}
	}

	for _, e := range b.edges {
		p, q := e[0], e[1]
		if !t.Has(p) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrUnknownNode, "parent %d of %d", p, q)
		}
		if !t.Has(q) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrUnknownNode, "child %d of %d", q, p)
		}
		if len(t.nodes[p].children) == 2 {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrTooManyChildren, "node %d", p)
		}
		t.nodes[p].children = append(t.nodes[p].children, q)
		t.nodes[q].parent = p
	}

	for i := range t.nodes {
		if t.nodes[i].parent != None {
			continue
		}
		if t.root != None {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrMultipleRoots,
				"nodes %d and %d", t.root, i)
		}
		t.root = NodeID(i)
	}
	if t.root == None {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrNoRoot, "build")
	}

	// With one parent per node and a single root, an unreachable node can
	// only sit on a cycle.
	reached := 0
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reached++
		stack = append(stack, t.nodes[p].children...)
	}
	if reached != n {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
			"%d of %d nodes are not reachable from root %d (cycle)", n-reached, n, t.root)
	}
	return t, nil
}
