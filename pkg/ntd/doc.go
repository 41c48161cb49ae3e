// Package ntd models nice tree decompositions of pattern graphs.
//
// # Overview
//
// A nice tree decomposition is a rooted tree whose nodes carry bags of
// pattern vertices. Every node has one of four types:
//
//   - [Leaf]: no children, the bag holds a single vertex
//   - [Introduce]: one child, the bag adds exactly one vertex
//   - [Forget]: one child, the bag drops exactly one vertex
//   - [Join]: two children with the same bag
//
// Nodes live in an arena and are addressed by [NodeID] handles, so removing
// per-node state during the dynamic program is a keyed delete and the tree
// has no pointer cycles.
//
// # Construction
//
// [Builder] collects node and adjacency records, typically straight from an
// .ntd file, and [Builder.Build] checks referential integrity: every
// reference must name a defined node, no node may have two parents, and
// exactly one root must reach every node. Violations are INVALID_FORMAT
// errors wrapping one of the sentinel errors below.
//
// Niceness itself (bag-size deltas, equal join bags) is not verified during
// construction. [Check] reports such problems on request; the DP engine
// otherwise surfaces them as invariant violations.
//
// # Traversal
//
// [StingyOrder] linearizes the tree children-first, visiting the heavier
// subtree of every join first so that fewer subtree tables are alive at once.
package ntd
