// Package edges computes the possible-edge universe of a nice tree
// decomposition.
//
// An edge {u, v} of a pattern graph can only be checked by the dynamic
// program at an Introduce node whose bag contains both endpoints. Collecting
// those pairs bottom-up yields, for every node p, the set of edges that any
// pattern compatible with the decomposition may carry below p. The set at the
// root is the universe: its edges are numbered 0..m-1 and a spanning subgraph
// of the universe is a [Mask] with bit i set when edge i is present.
//
// Per-node sets keep insertion order, so the numbering of the root set is
// deterministic for a given decomposition and traversal order:
//
//	u, err := edges.Build(t, ntd.StingyOrder(t))
//	m, err := u.Mask(h.Edges())   // the pattern as a subgraph of the universe
//	h2 := u.Graph(m, t.VertexCount())
//
// A universe larger than 64 edges cannot be represented and is rejected with
// an ARITHMETIC_RANGE error.
package edges
