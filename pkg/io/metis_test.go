package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/homcount/internal/fixtures"
	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
)

func TestReadMETISFixtures(t *testing.T) {
	tests := []struct {
		name     string
		vertices int
		edges    int
	}{
		{"k5.graph", 5, 10},
		{"c4.graph", 4, 4},
		{"tree_a.graph", 5, 4},
		{"path_b.graph", 5, 2},
		{"triangle_c.graph", 5, 5},
		{"pendant_d.graph", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadMETIS(fixtures.Reader(tt.name))
			if err != nil {
				t.Fatalf("ReadMETIS() error: %v", err)
			}
			if g.VertexCount() != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", g.VertexCount(), tt.vertices)
			}
			if g.EdgeCount() != tt.edges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.edges)
			}
		})
	}
}

func TestReadMETISIsolatedVertices(t *testing.T) {
	g, err := ReadMETIS(fixtures.Reader("path_b.graph"))
	if err != nil {
		t.Fatalf("ReadMETIS() error: %v", err)
	}

	want := []graph.Edge{{U: 1, V: 2}, {U: 2, V: 4}}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
	if g.Degree(0) != 0 || g.Degree(3) != 0 {
		t.Error("vertices 0 and 3 should be isolated")
	}
}

func TestReadMETISSelfLoop(t *testing.T) {
	src := "% looped pair\n2 2\n1 2\n1\n"
	g, err := ReadMETIS(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadMETIS() error: %v", err)
	}
	if !g.HasLoop(0) || g.HasLoop(1) {
		t.Errorf("loops = (%v, %v), want (true, false)", g.HasLoop(0), g.HasLoop(1))
	}
}

func TestReadMETISEdgeCountMismatch(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	g, err := ReadMETIS(strings.NewReader("% c\n3 5\n2\n1\n\n"))
	if err != nil {
		t.Fatalf("ReadMETIS() error: %v", err)
	}
	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount() = %d, want 1", got)
	}
	if !g.HasEdge(0, 1) {
		t.Error("HasEdge(0, 1) = false, want true")
	}
	if out := buf.String(); !strings.Contains(out, "edge count mismatch") || !strings.Contains(out, "declared") {
		t.Errorf("warning = %q, want an edge count mismatch warning", out)
	}
}

func TestReadMETISErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"empty", "", 0},
		{"short header", "3\n", 1},
		{"bad vertex count", "x 1\n", 1},
		{"weighted", "2 1 011\n2\n1\n", 1},
		{"neighbor out of range", "2 1\n3\n1\n", 2},
		{"bad token", "2 1\n2\nfoo\n", 3},
		{"extra vertex line", "1 0\n\n1\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMETIS(strings.NewReader(tt.src))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
				t.Fatalf("ReadMETIS() error = %v, want INVALID_FORMAT", err)
			}
			var e *apperrors.Error
			if tt.line > 0 && (!asError(err, &e) || e.Line != tt.line) {
				t.Errorf("error line = %v, want %d", err, tt.line)
			}
		})
	}
}

func TestWriteMETISRoundTrip(t *testing.T) {
	g := graph.MustNew(5, graph.Edge{U: 0, V: 1}, graph.Edge{U: 2, V: 2}, graph.Edge{U: 1, V: 4})

	var buf bytes.Buffer
	if err := WriteMETIS(&buf, g); err != nil {
		t.Fatalf("WriteMETIS() error: %v", err)
	}

	want := "5 3\n2\n1 5\n3\n\n2\n"
	if buf.String() != want {
		t.Errorf("WriteMETIS() = %q, want %q", buf.String(), want)
	}

	back, err := ReadMETIS(&buf)
	if err != nil {
		t.Fatalf("ReadMETIS() error: %v", err)
	}
	if !back.Equal(g) {
		t.Errorf("round trip = %v, want %v", back, g)
	}
}

func TestImportExportMETIS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c4.graph")
	if err := os.WriteFile(path, fixtures.Bytes("c4.graph"), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := ImportMETIS(path)
	if err != nil {
		t.Fatalf("ImportMETIS() error: %v", err)
	}

	out := filepath.Join(t.TempDir(), "copy.graph")
	if err := ExportMETIS(out, g); err != nil {
		t.Fatalf("ExportMETIS() error: %v", err)
	}
	back, err := ImportMETIS(out)
	if err != nil {
		t.Fatalf("ImportMETIS() error: %v", err)
	}
	if !back.Equal(g) {
		t.Errorf("round trip = %v, want %v", back, g)
	}

	if _, err := ImportMETIS(filepath.Join(t.TempDir(), "missing.graph")); err == nil {
		t.Error("ImportMETIS() should fail for a missing file")
	}
}
