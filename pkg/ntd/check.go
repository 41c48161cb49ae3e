package ntd

import (
	"fmt"
	"slices"
)

// Problem describes a node that breaks the niceness rules.
type Problem struct {
	Node   NodeID
	Type   NodeType
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("node %d (%s): %s", p.Node, p.Type, p.Reason)
}

// Check reports every node whose type, child count or bag does not match the
// niceness rules. A nil result means t is nice. The root bag is expected to
// be empty.
func Check(t *NTD) []Problem {
	var out []Problem
	report := func(p NodeID, format string, args ...any) {
		out = append(out, Problem{Node: p, Type: t.Type(p), Reason: fmt.Sprintf(format, args...)})
	}

	for _, p := range t.Nodes() {
		n := &t.nodes[p]
		switch n.typ {
		case Leaf:
			if len(n.children) != 0 {
				report(p, "leaf has %d children", len(n.children))
			}
			if len(n.bag) != 1 {
				report(p, "leaf bag has %d vertices, want 1", len(n.bag))
			}
		case Introduce, Forget:
			if len(n.children) != 1 {
				report(p, "has %d children, want 1", len(n.children))
				continue
			}
			if _, ok := t.UniqueVertex(p); !ok {
				report(p, "bag size %d does not differ from child bag size %d by one vertex",
					len(n.bag), len(t.nodes[n.children[0]].bag))
			}
		case Join:
			if len(n.children) != 2 {
				report(p, "has %d children, want 2", len(n.children))
				continue
			}
			for _, c := range n.children {
				if !slices.Equal(n.bag, t.nodes[c].bag) {
					report(p, "bag differs from child %d", c)
				}
			}
		}
	}
	if root := t.Root(); len(t.Bag(root)) != 0 {
		report(root, "root bag has %d vertices, want 0", len(t.Bag(root)))
	}
	return out
}
