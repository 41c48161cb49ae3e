// Package pkg provides the core libraries for homcount, a homomorphism
// counter over nice tree decompositions.
//
// # Overview
//
// Given a pattern graph H, a nice tree decomposition of H and a target graph
// G, homcount counts the maps from V(H) to V(G) that send every edge of H to
// an edge of G. The count is computed bottom-up over the decomposition, one
// table per node, keyed by the assignment of the node's bag. The generalized
// variant keys the tables by an edge subset as well and so counts every
// spanning subgraph of the decomposition in a single pass.
//
// # Architecture
//
// The typical data flow:
//
//	.ntd file + METIS pattern/target
//	         ↓
//	    [io] package (parse decompositions, graphs and edge lists)
//	         ↓
//	    [ntd] package (nice tree decomposition + stingy traversal order)
//	         ↓
//	    [edges] package (edge universe and subset masks)
//	         ↓
//	    [hom] package (dynamic programming engine)
//	         ↓
//	    count, or one count per class
//
// # Quick Start
//
//	t, _ := io.ImportNTD("tree.ntd")
//	h, _ := io.ParseEdgeList("5: 0-1 1-3 1-2 2-4")
//	g, _ := io.ImportMETIS("k5.graph")
//
//	e, _ := hom.New(t, g)
//	n, _ := e.Count(ctx, h) // 1280
//
// # Main Packages
//
// ## Engine
//
// [intfunc] - Encodes functions from a bag into the target's vertex set as
// integers, so DP tables are keyed by a single number.
//
// [ntd] - Nice tree decompositions: leaf, introduce, forget and join nodes,
// the niceness check, and the stingy order that keeps few tables alive.
//
// [edges] - The edge universe of a decomposition, with one bit per possible
// edge.
//
// [hom] - The counting engine, with the basic and the edge-subset
// recurrences.
//
// [brute] - Exhaustive counting used as a reference in tests and benchmarks.
//
// ## Input and Output
//
// [io] - METIS graphs, .ntd decompositions, inline edge lists, and JSON, YAML
// and CSV result writers.
//
// [graph] - Simple undirected graphs with self-loops.
//
// [gen] - Generated decompositions and target graphs for benchmarks.
//
// [render] - Graphviz drawings of decompositions and graphs.
//
// ## Infrastructure
//
// [pipeline] - The load → plan → count pipeline used by the CLI, the HTTP
// API and the benchmark harness.
//
// [cache] - Result caches: local files, Redis and Badger.
//
// [bench] - The timing harness and its record stores (files, MongoDB).
//
// [server] - The HTTP API.
//
// [observability] - Hooks and Prometheus metrics.
//
// [errors] - Coded errors and input validation.
//
// [intfunc]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/intfunc
// [ntd]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/ntd
// [edges]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/edges
// [hom]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/hom
// [brute]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/brute
// [io]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/io
// [graph]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/graph
// [gen]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/gen
// [render]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/cache
// [bench]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/bench
// [server]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/homcount/pkg/errors
package pkg
