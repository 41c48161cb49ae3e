package hom

import (
	"context"
	"slices"

	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/graph"
)

// Class is the homomorphism count of one spanning subgraph of the edge
// universe.
type Class struct {
	Mask  edges.Mask   `json:"mask" yaml:"mask"`
	Graph *graph.Graph `json:"graph" yaml:"graph"`
	Count uint64       `json:"count" yaml:"count"`
}

// Classes runs the edge-subset variant and returns one [Class] per subset
// of the universe, ordered by mask.
func (e *Engine) Classes(ctx context.Context) ([]Class, error) {
	u, err := e.Universe()
	if err != nil {
		return nil, err
	}
	root, err := e.run(ctx, "classes", nil)
	if err != nil {
		return nil, err
	}

	masks := make([]edges.Mask, 0, len(root))
	for m := range root {
		masks = append(masks, m)
	}
	slices.Sort(masks)

	out := make([]Class, len(masks))
	for i, m := range masks {
		out[i] = Class{Mask: m, Graph: u.Graph(m, e.t.VertexCount()), Count: root[m][0]}
	}
	return out, nil
}

// ClassCount runs the edge-subset variant and returns the count of the
// class whose edges are exactly those of h.
func (e *Engine) ClassCount(ctx context.Context, h *graph.Graph) (uint64, error) {
	if err := e.checkPattern(h); err != nil {
		return 0, err
	}
	u, err := e.Universe()
	if err != nil {
		return 0, err
	}
	m, err := u.Mask(h.Edges())
	if err != nil {
		return 0, err
	}
	root, err := e.run(ctx, "classes", nil)
	if err != nil {
		return 0, err
	}
	counts, ok := root[m]
	if !ok {
		return 0, e.missing(e.t.Root(), e.t.Root(), m)
	}
	return counts[0], nil
}
