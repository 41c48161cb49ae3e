package pipeline

import (
	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// Plan is the traversal chosen for a decomposition.
type Plan struct {
	Order          []ntd.NodeID
	BranchNumber   int
	PeakLiveTables int

	// Universe is nil unless the run tracks edge subsets.
	Universe *edges.Universe
}

// NewPlan computes the stingy order of t. With universe set it also builds
// the edge universe, which fails for more than 64 possible edges.
func NewPlan(t *ntd.NTD, universe bool) (*Plan, error) {
	order := ntd.StingyOrder(t)
	p := &Plan{
		Order:          order,
		BranchNumber:   ntd.BranchNumber(t),
		PeakLiveTables: ntd.PeakLiveTables(t, order),
	}
	if universe {
		u, err := edges.Build(t, order)
		if err != nil {
			return nil, err
		}
		p.Universe = u
	}
	return p, nil
}

// PossibleEdges is the size of the universe, or 0 without one.
func (p *Plan) PossibleEdges() int {
	if p.Universe == nil {
		return 0
	}
	return p.Universe.Len()
}
