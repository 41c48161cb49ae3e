package ntd

// StingyOrder returns the nodes of t children-first, with the subtree of
// larger branch number visited first at every join. Ties keep the first
// child first.
func StingyOrder(t *NTD) []NodeID {
	order, _ := plan(t, false)
	return order
}

// StingyOrderWith is [StingyOrder] with an option to invert the choice at
// every join, visiting the lighter subtree first. Both orders are valid
// evaluation orders and yield the same counts.
func StingyOrderWith(t *NTD, swapJoins bool) []NodeID {
	order, _ := plan(t, swapJoins)
	return order
}

// BranchNumber returns the branch number of the root: 0 for a leaf, the
// child's number for unary nodes, and bn1+bn2+1 for joins.
func BranchNumber(t *NTD) int {
	_, bn := plan(t, false)
	return bn[t.root]
}

type frame struct {
	p        NodeID
	expanded bool
}

// plan computes branch numbers bottom-up and then emits the order with an
// explicit stack, so path-shaped decompositions of any depth are safe.
func plan(t *NTD, swapJoins bool) ([]NodeID, []int) {
	bn := make([]int, len(t.nodes))
	for _, p := range postorder(t) {
		ch := t.nodes[p].children
		switch len(ch) {
		case 0:
			bn[p] = 0
		case 1:
			bn[p] = bn[ch[0]]
		default:
			bn[p] = bn[ch[0]] + bn[ch[1]] + 1
		}
	}

	order := make([]NodeID, 0, len(t.nodes))
	stack := []frame{{p: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.expanded {
			order = append(order, f.p)
			continue
		}
		stack = append(stack, frame{p: f.p, expanded: true})
		ch := t.nodes[f.p].children
		switch len(ch) {
		case 0:
		case 1:
			stack = append(stack, frame{p: ch[0]})
		default:
			first, second := ch[0], ch[1]
			if bn[first] < bn[second] {
				first, second = second, first
			}
			if swapJoins {
				first, second = second, first
			}
			// pushed in reverse so first is expanded first
			stack = append(stack, frame{p: second}, frame{p: first})
		}
	}
	return order, bn
}

// postorder returns every node after all of its descendants.
func postorder(t *NTD) []NodeID {
	out := make([]NodeID, 0, len(t.nodes))
	stack := []frame{{p: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.expanded {
			out = append(out, f.p)
			continue
		}
		stack = append(stack, frame{p: f.p, expanded: true})
		for _, c := range t.nodes[f.p].children {
			stack = append(stack, frame{p: c})
		}
	}
	return out
}

// PeakLiveTables simulates evaluation in the given order and returns the
// largest number of node tables alive at once, counting a child's table as
// alive until its parent has been evaluated.
func PeakLiveTables(t *NTD, order []NodeID) int {
	live, peak := 0, 0
	for _, p := range order {
		live++
		peak = max(peak, live)
		live -= len(t.nodes[p].children)
	}
	return peak
}
