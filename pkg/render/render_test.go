package render_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/homcount/internal/fixtures"
	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
	"github.com/matzehuels/homcount/pkg/render"
)

func TestDecompositionDOT(t *testing.T) {
	d, err := io.ReadNTD(fixtures.Reader("example_3.ntd"))
	if err != nil {
		t.Fatal(err)
	}

	dot := render.DecompositionDOT(d, render.Options{})
	for _, want := range []string{
		"digraph NTD {",
		`n0 [label="l {3}", shape=box`,
		`n8 [label="j {1,3,4}", shape=diamond`,
		"n8 -> n4;",
		"n8 -> n7;",
		"n13 -> n12;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, " -> "); got != d.NodeCount()-1 {
		t.Errorf("edge count = %d, want %d", got, d.NodeCount()-1)
	}
}

func TestDecompositionDOTDetailed(t *testing.T) {
	d, err := io.ReadNTD(fixtures.Reader("example_2.ntd"))
	if err != nil {
		t.Fatal(err)
	}
	order := ntd.StingyOrder(d)
	u, err := edges.Build(d, order)
	if err != nil {
		t.Fatal(err)
	}

	dot := render.DecompositionDOT(d, render.Options{Detailed: true, Universe: u, Order: order})
	root := d.Root()
	if !strings.Contains(dot, "#14 f {}") {
		t.Errorf("DOT missing root label\n%s", dot)
	}
	if !strings.Contains(dot, "step 14") {
		t.Errorf("root should be step 14\n%s", dot)
	}
	if len(u.Possible(root)) == 0 || !strings.Contains(dot, "E: 1-1") {
		t.Errorf("DOT missing possible edges\n%s", dot)
	}
}

func TestGraphDOT(t *testing.T) {
	g := graph.MustNew(3, graph.Edge{U: 0, V: 1}, graph.Edge{U: 2, V: 2})
	dot := render.GraphDOT(g)
	for _, want := range []string{"graph G {", `v2 [label="3"]`, "v0 -- v1;", "v2 -- v2;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	g := graph.MustNew(4, graph.Edge{U: 0, V: 1}, graph.Edge{U: 1, V: 2}, graph.Edge{U: 2, V: 3}, graph.Edge{U: 3, V: 0})
	dot := render.GraphDOT(g)

	out, err := render.Render(ctx, dot, render.FormatDOT)
	if err != nil || string(out) != dot {
		t.Errorf("Render(dot) = %q, %v", out, err)
	}

	svg, err := render.Render(ctx, dot, render.FormatSVG)
	if err != nil {
		t.Fatalf("Render(svg): %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Errorf("SVG output malformed: %.200s", svg)
	}

	png, err := render.Render(ctx, dot, render.FormatPNG)
	if err != nil {
		t.Fatalf("Render(png): %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("PNG output lacks signature: % x", png[:min(8, len(png))])
	}

	if _, err := render.Render(ctx, dot, "pdf"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render(pdf) error = %v, want INVALID_INPUT", err)
	}
}
