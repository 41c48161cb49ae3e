// Package hom counts graph homomorphisms with a dynamic program over a nice
// tree decomposition of the pattern.
//
// # Overview
//
// An [Engine] is bound to one decomposition and one target graph G. It walks
// the decomposition in stingy order and keeps, for every node p, a table of
// how many homomorphisms of the subgraph below p extend each mapping of
// bag(p) into G. Mappings are packed into integers by package intfunc.
//
//	e, err := hom.New(t, g)
//	n, err := e.Count(ctx, h)          // Hom(H, G)
//
// The generalized variant adds an edge-subset dimension. One traversal
// yields Hom(H', G) for every spanning subgraph H' of the possible-edge
// universe of the decomposition:
//
//	classes, err := e.Classes(ctx)     // one Class per subgraph, by mask
//
// # Memory
//
// A child's table is dropped as soon as its parent has been computed, so the
// number of live tables follows the branch structure of the decomposition
// rather than its size. [WithDeferredGC] keeps every table until the root is
// done; the result is the same. [Engine.Stats] reports the peaks.
//
// # Errors
//
// Decompositions are assumed to be nice. A node whose bag or children do not
// fit its type, or a lookup into a table that was never written, aborts the
// run with an [*InvariantViolation]. Counts that overflow uint64 abort with
// an ARITHMETIC_RANGE error.
package hom
