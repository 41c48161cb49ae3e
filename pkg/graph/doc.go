// Package graph provides the undirected graph model shared by patterns and
// targets.
//
// # Overview
//
// A [Graph] has vertices 0..n-1 and a set of undirected edges. Self-loops are
// allowed and matter: a homomorphism must send a looped pattern vertex to a
// looped target vertex. Multi-edges are not representable; adding an edge
// twice is a no-op.
//
// Graphs are immutable once built. Use [NewBuilder] to collect edges and
// [Builder.Build] to freeze them, or [New] for a one-shot construction:
//
//	g, err := graph.New(3, graph.Edge{U: 0, V: 1}, graph.Edge{U: 1, V: 2})
//	g.HasEdge(1, 0) // true
//	g.HasLoop(1)    // false
//
// Adjacency is stored twice: as sorted neighbor lists for iteration and as a
// bit matrix for O(1) [Graph.HasEdge], which is the hot query of both the
// dynamic program and the brute-force counter.
//
// # Serialization
//
// [Graph] marshals to JSON and YAML as {"vertices": n, "edges": [[u, v], ...]}
// with 0-indexed endpoints. Text formats (METIS, edge-list expressions) live
// in pkg/io.
package graph
