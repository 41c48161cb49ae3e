// Package render draws decompositions and graphs with Graphviz.
//
// # DOT
//
// [DecompositionDOT] lays a nice tree decomposition out top to bottom with
// the root first. Each node shows its type and bag; join nodes are drawn as
// diamonds so the branching structure stands out. [GraphDOT] writes an
// undirected graph, self-loops included.
//
//	dot := render.DecompositionDOT(t, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Output formats
//
// [RenderSVG] and [RenderPNG] run Graphviz in-process through
// [github.com/goccy/go-graphviz], so no external binaries are needed.
// Vertices are printed 1-indexed to match the .ntd and METIS files.
package render
