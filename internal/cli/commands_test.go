package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/homcount/pkg/bench"
	"github.com/matzehuels/homcount/pkg/errors"
	homio "github.com/matzehuels/homcount/pkg/io"
)

func TestInfo(t *testing.T) {
	dir := isolate(t)
	out, err := runCLI(t, "info", "--check", "-f", "json",
		filepath.Join(dir, "example_2.ntd"), filepath.Join(dir, "example_3.ntd"))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var reports []infoReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}

	tests := []struct {
		name                                  string
		width, nodes, joins, leaves, branches int
	}{
		{"example_2.ntd", 1, 14, 2, 3, 2},
		{"example_3.ntd", 2, 14, 1, 2, 1},
	}
	for i, tt := range tests {
		r := reports[i]
		if r.Name != tt.name || r.Width != tt.width || r.Nodes != tt.nodes ||
			r.Joins != tt.joins || r.Leaves != tt.leaves || r.BranchNumber != tt.branches {
			t.Errorf("report %d = %+v, want %+v", i, r.Description, tt)
		}
		if len(r.Order) != r.Nodes {
			t.Errorf("%s order has %d nodes, want %d", r.Name, len(r.Order), r.Nodes)
		}
		if len(r.Problems) != 0 {
			t.Errorf("%s problems = %v, want none", r.Name, r.Problems)
		}
	}
	if reports[0].PossibleEdges != 9 {
		t.Errorf("example_2 possible edges = %d, want 9", reports[0].PossibleEdges)
	}
}

func TestInfoText(t *testing.T) {
	dir := isolate(t)
	out, err := runCLI(t, "info", "-f", "text", filepath.Join(dir, "example_2.ntd"))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, s := range []string{"example_2.ntd", "width", "branch number", "order"} {
		if !strings.Contains(out, s) {
			t.Errorf("info output missing %q:\n%s", s, out)
		}
	}
}

func TestInfoCSV(t *testing.T) {
	dir := isolate(t)
	out, err := runCLI(t, "info", "-f", "csv", filepath.Join(dir, "example_2.ntd"))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	want := "name,width,nodes,possible_edges,vertices,branch_number,peak_live_tables,joins,leaves\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("info csv header = %q, want %q", out, want)
	}
}

func TestRenderDOT(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		file string
		want string
	}{
		{"example_2.ntd", "digraph NTD"},
		{"k5.graph", "graph G"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			out, err := runCLI(t, "render", "-f", "dot", "--detailed", filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("render output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	dir := isolate(t)
	if _, err := runCLI(t, "render", "-f", "pdf", filepath.Join(dir, "k5.graph")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("render pdf error = %v, want INVALID_INPUT", err)
	}
	if _, err := runCLI(t, "render", "-f", "png", filepath.Join(dir, "k5.graph")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("render png to stdout error = %v, want INVALID_INPUT", err)
	}
}

func TestGenerate(t *testing.T) {
	isolate(t)
	tmp := t.TempDir()

	tests := []struct {
		args     []string
		ntd      bool
		vertices int
		nodes    int
		edges    int
	}{
		{args: []string{"path", "4"}, ntd: true, vertices: 4, nodes: 8},
		{args: []string{"complete", "3"}, ntd: true, vertices: 3},
		{args: []string{"path", "4", "--graph"}, vertices: 4, edges: 3},
		{args: []string{"cycle", "5"}, vertices: 5, edges: 5},
		{args: []string{"clique", "5"}, vertices: 5, edges: 10},
		{args: []string{"clique", "3", "--loops"}, vertices: 3, edges: 6},
		{args: []string{"random", "6", "7", "--seed", "1"}, vertices: 6, edges: 7},
	}
	for i, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			path := filepath.Join(tmp, fmt.Sprintf("out%d", i))
			if _, err := runCLI(t, append([]string{"generate", "-o", path}, tt.args...)...); err != nil {
				t.Fatalf("generate: %v", err)
			}
			if tt.ntd {
				nd, err := homio.ImportNTD(path)
				if err != nil {
					t.Fatalf("ImportNTD: %v", err)
				}
				if nd.VertexCount() != tt.vertices {
					t.Errorf("vertices = %d, want %d", nd.VertexCount(), tt.vertices)
				}
				if tt.nodes > 0 && nd.NodeCount() != tt.nodes {
					t.Errorf("nodes = %d, want %d", nd.NodeCount(), tt.nodes)
				}
				return
			}
			g, err := homio.ImportMETIS(path)
			if err != nil {
				t.Fatalf("ImportMETIS: %v", err)
			}
			if g.VertexCount() != tt.vertices || g.EdgeCount() != tt.edges {
				t.Errorf("graph = %dv/%de, want %dv/%de", g.VertexCount(), g.EdgeCount(), tt.vertices, tt.edges)
			}
		})
	}

	if _, err := runCLI(t, "generate", "cycle", "three"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("generate cycle three error = %v, want INVALID_INPUT", err)
	}
}

func TestGenerateThenCount(t *testing.T) {
	isolate(t)
	tmp := t.TempDir()
	decomp := filepath.Join(tmp, "path.ntd")
	pattern := filepath.Join(tmp, "path.graph")
	target := filepath.Join(tmp, "k3.graph")
	for _, args := range [][]string{
		{"generate", "path", "3", "-o", decomp},
		{"generate", "path", "3", "--graph", "-o", pattern},
		{"generate", "clique", "3", "-o", target},
	} {
		if _, err := runCLI(t, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	out, err := runCLI(t, "count", "-f", "json", decomp, pattern, target)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	// A walk of two steps in K3: 3 starts, 2 choices per step.
	if got := decodeResult(t, out).Count; got != 12 {
		t.Errorf("count = %d, want 12", got)
	}
}

func TestBench(t *testing.T) {
	dir := isolate(t)
	matrix := filepath.Join(t.TempDir(), "matrix.csv")
	if err := os.WriteFile(matrix, []byte("ntd,k5.graph,c4.graph\nexample_2.ntd,1,0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", t.TempDir())

	out, err := runCLI(t, "bench", matrix, "--decompositions", dir, "--targets", dir, "-r", "1", "-a", "classes")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("bench csv lines = %d, want 2:\n%s", len(lines), out)
	}

	out, err = runCLI(t, "bench", "list", "-f", "json")
	if err != nil {
		t.Fatalf("bench list: %v", err)
	}
	var records []bench.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(records) != 1 || records[0].Algorithm != bench.AlgorithmClasses || records[0].Target != "k5.graph" {
		t.Errorf("stored records = %+v", records)
	}

	if _, err := runCLI(t, "bench", matrix, "-a", "quantum"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bench -a quantum error = %v, want INVALID_INPUT", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	cache := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if got := strings.TrimSpace(out); got != cache {
		t.Errorf("cache path = %q, want %q", got, cache)
	}

	args := []string{"count", "-f", "json", filepath.Join(dir, "example_2.ntd"), filepath.Join(dir, "tree_a.graph"), filepath.Join(dir, "k5.graph")}
	if _, err := runCLI(t, args...); err != nil {
		t.Fatalf("count: %v", err)
	}
	out, err = runCLI(t, "cache", "info")
	if err != nil {
		t.Fatalf("cache info: %v", err)
	}
	for _, want := range []string{"backend", "file", "count", "1 entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("cache info output %q missing %q", out, want)
		}
	}

	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	out, err = runCLI(t, args...)
	if err != nil {
		t.Fatalf("count after clear: %v", err)
	}
	if decodeResult(t, out).CacheInfo.Hit {
		t.Error("count after cache clear hit the cache")
	}
}
