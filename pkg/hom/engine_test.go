package hom_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/homcount/internal/fixtures"
	"github.com/matzehuels/homcount/pkg/brute"
	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/hom"
	"github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
)

func load(t *testing.T, pair fixtures.Pair) (*ntd.NTD, *graph.Graph, *graph.Graph) {
	t.Helper()
	td, err := io.ReadNTD(fixtures.Reader(pair.Decomposition))
	if err != nil {
		t.Fatal(err)
	}
	h, err := io.ReadMETIS(fixtures.Reader(pair.Pattern))
	if err != nil {
		t.Fatal(err)
	}
	g, err := io.ReadMETIS(fixtures.Reader(pair.Target))
	if err != nil {
		t.Fatal(err)
	}
	return td, h, g
}

func count(t *testing.T, td *ntd.NTD, h, g *graph.Graph, opts ...hom.Option) uint64 {
	t.Helper()
	e, err := hom.New(td, g, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := e.Count(context.Background(), h)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	return got
}

func TestCountFixtures(t *testing.T) {
	for _, pair := range fixtures.Pairs {
		t.Run(pair.Name, func(t *testing.T) {
			td, h, g := load(t, pair)

			got := count(t, td, h, g)
			if got != pair.Want {
				t.Errorf("Count() = %d, want %d", got, pair.Want)
			}

			want, err := brute.Count(context.Background(), h, g)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("Count() = %d, brute.Count() = %d", got, want)
			}
		})
	}
}

func TestCountInvariantUnderSwappedJoins(t *testing.T) {
	for _, pair := range fixtures.Pairs {
		t.Run(pair.Name, func(t *testing.T) {
			td, h, g := load(t, pair)

			swapped := count(t, td, h, g, hom.WithOrder(ntd.StingyOrderWith(td, true)))
			if swapped != pair.Want {
				t.Errorf("Count(swapped order) = %d, want %d", swapped, pair.Want)
			}
		})
	}
}

func TestTrackEdgesMatchesBasic(t *testing.T) {
	for _, pair := range fixtures.Pairs {
		t.Run(pair.Name, func(t *testing.T) {
			td, h, g := load(t, pair)

			got := count(t, td, h, g, hom.WithTrackEdges(true))
			if got != pair.Want {
				t.Errorf("Count(track edges) = %d, want %d", got, pair.Want)
			}
		})
	}
}

func TestDeferredGCMatches(t *testing.T) {
	for _, pair := range fixtures.Pairs {
		t.Run(pair.Name, func(t *testing.T) {
			td, h, g := load(t, pair)

			immediate, err := hom.New(td, g)
			if err != nil {
				t.Fatal(err)
			}
			deferred, err := hom.New(td, g, hom.WithDeferredGC(true))
			if err != nil {
				t.Fatal(err)
			}

			a, err := immediate.Count(context.Background(), h)
			if err != nil {
				t.Fatal(err)
			}
			b, err := deferred.Count(context.Background(), h)
			if err != nil {
				t.Fatal(err)
			}
			if a != b {
				t.Errorf("immediate GC = %d, deferred GC = %d", a, b)
			}

			root := []ntd.NodeID{td.Root()}
			for name, e := range map[string]*hom.Engine{"immediate": immediate, "deferred": deferred} {
				if diff := cmp.Diff(root, e.LiveNodes()); diff != "" {
					t.Errorf("%s: LiveNodes() mismatch (-want +got):\n%s", name, diff)
				}
			}
			if immediate.Stats().PeakLiveNodes >= deferred.Stats().PeakLiveNodes {
				t.Errorf("immediate peak %d should be below deferred peak %d",
					immediate.Stats().PeakLiveNodes, deferred.Stats().PeakLiveNodes)
			}
		})
	}
}

func TestStatsFollowPlanner(t *testing.T) {
	for _, pair := range fixtures.Pairs {
		td, h, g := load(t, pair)
		e, err := hom.New(td, g)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.Count(context.Background(), h); err != nil {
			t.Fatal(err)
		}

		stats := e.Stats()
		if stats.NodesProcessed != td.NodeCount() {
			t.Errorf("%s: NodesProcessed = %d, want %d", pair.Name, stats.NodesProcessed, td.NodeCount())
		}
		if want := ntd.PeakLiveTables(td, e.Order()); stats.PeakLiveNodes != want {
			t.Errorf("%s: PeakLiveNodes = %d, want %d", pair.Name, stats.PeakLiveNodes, want)
		}
	}
}

func TestWorkersMatchSequential(t *testing.T) {
	for _, pair := range fixtures.Pairs {
		t.Run(pair.Name, func(t *testing.T) {
			td, h, g := load(t, pair)

			for _, workers := range []int{2, 3, 8} {
				e, err := hom.New(td, g, hom.WithWorkers(workers))
				if err != nil {
					t.Fatal(err)
				}
				e.SetMinParallel(1)
				got, err := e.Count(context.Background(), h)
				if err != nil {
					t.Fatal(err)
				}
				if got != pair.Want {
					t.Errorf("Count(workers=%d) = %d, want %d", workers, got, pair.Want)
				}
			}
		})
	}
}

func TestCountLoops(t *testing.T) {
	// single-vertex pattern with a loop, decomposed as leaf -> forget
	b := ntd.NewBuilder(1)
	if err := b.AddNode(0, ntd.Leaf, []ntd.Vertex{0}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddNode(1, ntd.Forget, nil); err != nil {
		t.Fatal(err)
	}
	if err := b.AddChild(1, 0); err != nil {
		t.Fatal(err)
	}
	td, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	looped := graph.MustNew(1, graph.Edge{U: 0, V: 0})
	target := graph.MustNew(3, graph.Edge{U: 0, V: 1}, graph.Edge{U: 2, V: 2})

	if got := count(t, td, looped, target); got != 1 {
		t.Errorf("Count(loop) = %d, want 1", got)
	}
	if got := count(t, td, graph.MustNew(1), target); got != 3 {
		t.Errorf("Count(vertex) = %d, want 3", got)
	}
}

func TestCountIntroducedLoop(t *testing.T) {
	// edge 0-1 with a loop on 1, introduced after 0
	b := ntd.NewBuilder(2)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(b.AddNode(0, ntd.Leaf, []ntd.Vertex{0}))
	must(b.AddNode(1, ntd.Introduce, []ntd.Vertex{0, 1}))
	must(b.AddNode(2, ntd.Forget, []ntd.Vertex{1}))
	must(b.AddNode(3, ntd.Forget, nil))
	must(b.AddChild(1, 0))
	must(b.AddChild(2, 1))
	must(b.AddChild(3, 2))
	td, err := b.Build()
	must(err)

	h := graph.MustNew(2, graph.Edge{U: 0, V: 1}, graph.Edge{U: 1, V: 1})
	g := graph.MustNew(4, graph.Edge{U: 0, V: 1}, graph.Edge{U: 1, V: 1}, graph.Edge{U: 1, V: 2}, graph.Edge{U: 3, V: 3})

	want, err := brute.Count(context.Background(), h, g)
	must(err)
	if got := count(t, td, h, g); got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
	if got := count(t, td, h, g, hom.WithTrackEdges(true)); got != want {
		t.Errorf("Count(track edges) = %d, want %d", got, want)
	}
}

func TestClassesMatchBrute(t *testing.T) {
	tests := []struct {
		decomposition string
		target        string
	}{
		{"example_4.ntd", "c4.graph"},
		{"example_2.ntd", "c4.graph"},
	}

	for _, tt := range tests {
		t.Run(tt.decomposition, func(t *testing.T) {
			td, err := io.ReadNTD(fixtures.Reader(tt.decomposition))
			if err != nil {
				t.Fatal(err)
			}
			g, err := io.ReadMETIS(fixtures.Reader(tt.target))
			if err != nil {
				t.Fatal(err)
			}

			e, err := hom.New(td, g, hom.WithWorkers(4))
			if err != nil {
				t.Fatal(err)
			}
			e.SetMinParallel(1)
			got, err := e.Classes(context.Background())
			if err != nil {
				t.Fatalf("Classes() error: %v", err)
			}

			u, err := e.Universe()
			if err != nil {
				t.Fatal(err)
			}
			want, err := brute.Classes(context.Background(), u, td.VertexCount(), g)
			if err != nil {
				t.Fatal(err)
			}

			if len(got) != len(want) {
				t.Fatalf("len(Classes()) = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].Mask != want[i].Mask || got[i].Count != want[i].Count {
					t.Errorf("class %d: got (%b, %d), want (%b, %d)",
						i, got[i].Mask, got[i].Count, want[i].Mask, want[i].Count)
				}
				if !got[i].Graph.Equal(want[i].Graph) {
					t.Errorf("class %d: graph %v, want %v", i, got[i].Graph, want[i].Graph)
				}
			}
		})
	}
}

func TestClassCountMatchesCount(t *testing.T) {
	for _, pair := range fixtures.Pairs {
		td, h, g := load(t, pair)
		e, err := hom.New(td, g)
		if err != nil {
			t.Fatal(err)
		}
		got, err := e.ClassCount(context.Background(), h)
		if err != nil {
			t.Fatalf("%s: ClassCount() error: %v", pair.Name, err)
		}
		if got != pair.Want {
			t.Errorf("%s: ClassCount() = %d, want %d", pair.Name, got, pair.Want)
		}
	}
}

func TestCountRejectsUncoveredPattern(t *testing.T) {
	td, _, g := load(t, fixtures.Pairs[0])

	tests := []struct {
		name string
		h    *graph.Graph
	}{
		{"edge outside every bag", graph.MustNew(5, graph.Edge{U: 0, V: 4})},
		{"too many vertices", graph.MustNew(6)},
		{"too few vertices", graph.MustNew(3, graph.Edge{U: 0, V: 1})},
	}
	for _, tt := range tests {
		e, err := hom.New(td, g)
		if err != nil {
			t.Fatal(err)
		}
		_, err = e.Count(context.Background(), tt.h)
		if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
			t.Errorf("%s: Count() error = %v, want INVALID_INPUT", tt.name, err)
		}
	}
}

func TestInvariantViolation(t *testing.T) {
	// join whose children carry bags of different sizes
	b := ntd.NewBuilder(2)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(b.AddNode(0, ntd.Leaf, []ntd.Vertex{0}))
	must(b.AddNode(1, ntd.Leaf, []ntd.Vertex{1}))
	must(b.AddNode(2, ntd.Introduce, []ntd.Vertex{0, 1}))
	must(b.AddNode(3, ntd.Join, []ntd.Vertex{0, 1}))
	must(b.AddNode(4, ntd.Forget, []ntd.Vertex{0}))
	must(b.AddNode(5, ntd.Forget, nil))
	must(b.AddChild(2, 1))
	must(b.AddChild(3, 0))
	must(b.AddChild(3, 2))
	must(b.AddChild(4, 3))
	must(b.AddChild(5, 4))
	td, err := b.Build()
	must(err)

	e, err := hom.New(td, graph.MustNew(2))
	must(err)
	_, err = e.Count(context.Background(), graph.MustNew(2))

	var iv *hom.InvariantViolation
	if !errors.As(err, &iv) {
		t.Fatalf("Count() error = %v, want *InvariantViolation", err)
	}
	if iv.Node != 3 || iv.Type != ntd.Join || iv.WantBag != 2 || iv.GotBag != 1 {
		t.Errorf("InvariantViolation = %+v", iv)
	}
	if !apperrors.Is(err, apperrors.ErrCodeInvariant) {
		t.Errorf("Count() error code = %q, want INVARIANT_VIOLATION", apperrors.GetCode(err))
	}
}

func TestNewRejectsNonEmptyRoot(t *testing.T) {
	b := ntd.NewBuilder(1)
	if err := b.AddNode(0, ntd.Leaf, []ntd.Vertex{0}); err != nil {
		t.Fatal(err)
	}
	td, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := hom.New(td, graph.MustNew(3)); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("New() error = %v, want INVALID_INPUT", err)
	}
}

func TestCountCanceled(t *testing.T) {
	td, h, g := load(t, fixtures.Pairs[0])
	e, err := hom.New(td, g)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Count(ctx, h); !errors.Is(err, context.Canceled) {
		t.Errorf("Count() error = %v, want context.Canceled", err)
	}
}

func TestNewRejectsBadOrder(t *testing.T) {
	td, _, g := load(t, fixtures.Pairs[0])
	order := ntd.StingyOrder(td)
	order[0], order[len(order)-1] = order[len(order)-1], order[0]

	if _, err := hom.New(td, g, hom.WithOrder(order)); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("New() error = %v, want INVALID_INPUT", err)
	}
	if _, err := hom.New(td, g, hom.WithWorkers(-1)); err == nil {
		t.Error("New(workers=-1) should fail")
	}
}

// introduceChain builds Leaf {0}, introduces 1..n-1 one at a time and then
// forgets them again down to an empty root.
func introduceChain(t *testing.T, n int) *ntd.NTD {
	t.Helper()
	b := ntd.NewBuilder(n)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	bag := []ntd.Vertex{0}
	must(b.AddNode(0, ntd.Leaf, bag))
	id := ntd.NodeID(1)
	for v := 1; v < n; v++ {
		bag = append(bag, v)
		must(b.AddNode(id, ntd.Introduce, slices.Clone(bag)))
		must(b.AddChild(id, id-1))
		id++
	}
	for len(bag) > 0 {
		bag = bag[:len(bag)-1]
		must(b.AddNode(id, ntd.Forget, slices.Clone(bag)))
		must(b.AddChild(id, id-1))
		id++
	}
	td, err := b.Build()
	must(err)
	return td
}

func TestUniverseLimit(t *testing.T) {
	td := introduceChain(t, 12)
	_, err := hom.New(td, graph.MustNew(2), hom.WithTrackEdges(true))
	if !apperrors.Is(err, apperrors.ErrCodeArithmeticRange) {
		t.Errorf("New(track edges) error = %v, want ARITHMETIC_RANGE", err)
	}
}

func TestTableBudget(t *testing.T) {
	// 8 vertices give 36 possible edges: a valid universe whose subsets no
	// table can hold.
	td := introduceChain(t, 8)
	k2 := graph.MustNew(2, graph.Edge{U: 0, V: 1})

	if _, err := hom.New(td, k2, hom.WithTrackEdges(true)); !apperrors.Is(err, apperrors.ErrCodeArithmeticRange) {
		t.Errorf("New(track edges) error = %v, want ARITHMETIC_RANGE", err)
	}

	e, err := hom.New(td, k2)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	u, err := e.Universe()
	if err != nil {
		t.Fatalf("Universe() error: %v", err)
	}
	if got := u.Len(); got != 36 {
		t.Errorf("Universe().Len() = %d, want 36", got)
	}
	if _, err := e.Classes(context.Background()); !apperrors.Is(err, apperrors.ErrCodeArithmeticRange) {
		t.Errorf("Classes() error = %v, want ARITHMETIC_RANGE", err)
	}
	if got := e.Stats().NodesProcessed; got != 0 {
		t.Errorf("NodesProcessed = %d, want 0", got)
	}

	// The basic variant is unaffected.
	h := graph.MustNew(8)
	if got := count(t, td, h, k2); got != 256 {
		t.Errorf("Count(8 isolated vertices) = %d, want 256", got)
	}

	small := introduceChain(t, 4)
	e, err = hom.New(small, k2)
	if err != nil {
		t.Fatalf("New(4 vertices) error: %v", err)
	}
	classes, err := e.Classes(context.Background())
	if err != nil {
		t.Fatalf("Classes(4 vertices) error: %v", err)
	}
	if got := len(classes); got != 1<<10 {
		t.Errorf("len(Classes(4 vertices)) = %d, want %d", got, 1<<10)
	}
}
