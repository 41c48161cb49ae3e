// Package io reads and writes the text formats consumed by homcount.
//
// # Target graphs (METIS)
//
// Target graphs use the METIS adjacency format. Lines starting with % are
// comments. The first remaining line is "<vertices> <edges>", and each
// following line lists the 1-indexed neighbors of one vertex. An empty line
// is a vertex without neighbors. A vertex listing itself has a self-loop.
//
//	% cycle on 4 vertices
//	4 4
//	2 4
//	1 3
//	2 4
//	1 3
//
// Vertices are 0-indexed after loading.
//
// # Nice tree decompositions (.ntd)
//
//	s <nodes> <max bag size> <vertices>
//	n <node> <l|i|f|j> <bag vertices...>
//	a <parent> <child>
//
// Node ids and vertices are 1-indexed in the file. Lines starting with c, #
// or % are comments.
//
// # Edge-list expressions
//
// Small pattern graphs can be given inline, as in "5: 0-1 1-2 2-2". The
// optional "n:" prefix fixes the vertex count, "u-v" adds an edge, and a bare
// vertex only makes sure that vertex exists. Vertices are 0-indexed, and
// commas may separate items.
//
// # Errors
//
// Every parse failure is an INVALID_FORMAT error from pkg/errors carrying the
// offending line. Readers never call into the counting engine, so malformed
// input is rejected before any work starts.
package io
