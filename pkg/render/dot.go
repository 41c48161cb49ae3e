package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// Options configures decomposition diagrams.
type Options struct {
	// Detailed adds the node id and, with a Universe, the possible edges.
	Detailed bool

	// Universe supplies the possible edges shown in detailed labels.
	Universe *edges.Universe

	// Order numbers the nodes by their position in a traversal.
	Order []ntd.NodeID
}

var shapes = map[ntd.NodeType]string{
	ntd.Leaf:      "box",
	ntd.Introduce: "box",
	ntd.Forget:    "box",
	ntd.Join:      "diamond",
}

var fills = map[ntd.NodeType]string{
	ntd.Leaf:      "#d8f3dc",
	ntd.Introduce: "white",
	ntd.Forget:    "#f1f1f1",
	ntd.Join:      "#ffe8a3",
}

// DecompositionDOT converts t to Graphviz DOT. Edges point from parent to
// child.
func DecompositionDOT(t *ntd.NTD, opts Options) string {
	step := make(map[ntd.NodeID]int, len(opts.Order))
	for i, p := range opts.Order {
		step[p] = i + 1
	}

	var buf bytes.Buffer
	buf.WriteString("digraph NTD {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for _, p := range t.Nodes() {
		label := nodeLabel(t, p, opts, step[p])
		fmt.Fprintf(&buf, "  n%d [label=%q, shape=%s, fillcolor=%q];\n",
			p, label, shapes[t.Type(p)], fills[t.Type(p)])
	}

	buf.WriteString("\n")
	for _, p := range t.Nodes() {
		for _, c := range t.Children(p) {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", p, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(t *ntd.NTD, p ntd.NodeID, opts Options, step int) string {
	head := fmt.Sprintf("%c {%s}", t.Type(p).Symbol(), bagString(t.Bag(p)))
	if !opts.Detailed {
		return head
	}

	lines := []string{fmt.Sprintf("#%d %s", p+1, head)}
	if step > 0 {
		lines = append(lines, fmt.Sprintf("step %d", step))
	}
	if opts.Universe != nil {
		var es []string
		for _, e := range opts.Universe.Possible(p) {
			es = append(es, fmt.Sprintf("%d-%d", e.U+1, e.V+1))
		}
		lines = append(lines, "E: "+strings.Join(es, " "))
	}
	return strings.Join(lines, "\n")
}

func bagString(bag []ntd.Vertex) string {
	parts := make([]string, len(bag))
	for i, v := range bag {
		parts[i] = fmt.Sprint(v + 1)
	}
	return strings.Join(parts, ",")
}

// GraphDOT converts g to an undirected Graphviz graph.
func GraphDOT(g *graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for v := range g.VertexCount() {
		fmt.Fprintf(&buf, "  v%d [label=\"%d\"];\n", v, v+1)
	}
	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  v%d -- v%d;\n", e.U, e.V)
	}

	buf.WriteString("}\n")
	return buf.String()
}
