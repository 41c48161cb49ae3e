package brute

import (
	"context"
	"testing"

	"github.com/matzehuels/homcount/internal/fixtures"
	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
)

func readGraph(t *testing.T, name string) *graph.Graph {
	t.Helper()
	g, err := io.ReadMETIS(fixtures.Reader(name))
	if err != nil {
		t.Fatalf("ReadMETIS(%s) error: %v", name, err)
	}
	return g
}

func TestCountFixtures(t *testing.T) {
	for _, pair := range fixtures.Pairs {
		t.Run(pair.Name, func(t *testing.T) {
			got, err := Count(context.Background(), readGraph(t, pair.Pattern), readGraph(t, pair.Target))
			if err != nil {
				t.Fatalf("Count() error: %v", err)
			}
			if got != pair.Want {
				t.Errorf("Count() = %d, want %d", got, pair.Want)
			}
		})
	}
}

func TestCountSmall(t *testing.T) {
	k2 := graph.MustNew(2, graph.Edge{U: 0, V: 1})
	loop := graph.MustNew(1, graph.Edge{U: 0, V: 0})

	tests := []struct {
		name string
		h, g *graph.Graph
		want uint64
	}{
		{"empty pattern", graph.MustNew(0), k2, 1},
		{"isolated vertices", graph.MustNew(3), k2, 8},
		{"edge into edge", k2, k2, 2},
		{"edge into loop", k2, loop, 1},
		{"loop into edge", loop, k2, 0},
		{"triangle into edge", graph.MustNew(3, graph.Edge{U: 0, V: 1}, graph.Edge{U: 1, V: 2}, graph.Edge{U: 0, V: 2}), k2, 0},
		{"anything into empty target", k2, graph.MustNew(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Count(context.Background(), tt.h, tt.g)
			if err != nil {
				t.Fatalf("Count() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Count(ctx, graph.MustNew(2), graph.MustNew(2)); err == nil {
		t.Error("Count() with canceled context should fail")
	}
}

func TestClasses(t *testing.T) {
	td, err := io.ReadNTD(fixtures.Reader("example_4.ntd"))
	if err != nil {
		t.Fatal(err)
	}
	u, err := edges.Build(td, ntd.StingyOrder(td))
	if err != nil {
		t.Fatal(err)
	}
	g := readGraph(t, "c4.graph")

	classes, err := Classes(context.Background(), u, td.VertexCount(), g)
	if err != nil {
		t.Fatalf("Classes() error: %v", err)
	}
	if len(classes) != 1<<u.Len() {
		t.Fatalf("len(Classes()) = %d, want %d", len(classes), 1<<u.Len())
	}
	for i, c := range classes {
		if c.Mask != edges.Mask(i) {
			t.Fatalf("classes[%d].Mask = %d", i, c.Mask)
		}
	}
	// the empty subgraph maps its 5 isolated vertices freely
	if classes[0].Count != 4*4*4*4*4 {
		t.Errorf("classes[0].Count = %d, want %d", classes[0].Count, 4*4*4*4*4)
	}
}
