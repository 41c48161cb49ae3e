package graph

import (
	"encoding/json"
	"fmt"
)

// Wire is the serialized form of a [Graph].
type Wire struct {
	Vertices int      `json:"vertices" yaml:"vertices"`
	Edges    [][2]int `json:"edges" yaml:"edges"`
}

// ToWire converts g to its serialized form.
func (g *Graph) ToWire() Wire {
	w := Wire{Vertices: g.n, Edges: make([][2]int, 0, len(g.edges))}
	for _, e := range g.edges {
		w.Edges = append(w.Edges, [2]int{e.U, e.V})
	}
	return w
}

// FromWire builds a graph from its serialized form.
func FromWire(w Wire) (*Graph, error) {
	if w.Vertices < 0 {
		return nil, ErrNegativeSize
	}
	b := NewBuilder(w.Vertices)
	for _, e := range w.Edges {
		if err := b.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// MarshalJSON implements json.Marshaler.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToWire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode graph: %w", err)
	}
	built, err := FromWire(w)
	if err != nil {
		return err
	}
	*g = *built
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (g *Graph) MarshalYAML() (any, error) {
	return g.ToWire(), nil
}
