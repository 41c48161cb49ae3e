package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
)

// ReadMETIS decodes a METIS adjacency file into a graph.
//
// Missing trailing vertex lines are treated as isolated vertices. A declared
// edge count that differs from the number of distinct undirected edges,
// counting every self-loop once, is logged as a warning and otherwise
// ignored.
func ReadMETIS(r io.Reader) (*graph.Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		b          *graph.Builder
		n, m       int
		headerLine int
		vertex     int
		line       int
	)

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(text, "%") {
			continue
		}

		if b == nil {
			if text == "" {
				continue
			}
			var err error
			n, m, err = parseMETISHeader(text, line)
			if err != nil {
				return nil, err
			}
			headerLine = line
			b = graph.NewBuilder(n)
			continue
		}

		if vertex >= n {
			if text != "" {
				return nil, apperrors.FormatErrorf(line, "adjacency line for vertex %d, but only %d vertices declared", vertex+1, n)
			}
			continue
		}

		for _, tok := range strings.Fields(text) {
			u, err := strconv.Atoi(tok)
			if err != nil {
				return nil, apperrors.FormatErrorf(line, "invalid neighbor %q", tok)
			}
			if u < 1 || u > n {
				return nil, apperrors.FormatErrorf(line, "neighbor %d outside 1..%d", u, n)
			}
			if err := b.AddEdge(vertex, u-1); err != nil {
				return nil, apperrors.FormatErrorf(line, "%v", err)
			}
		}
		vertex++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read metis: %w", err)
	}
	if b == nil {
		return nil, apperrors.FormatErrorf(line, "missing header line")
	}

	g := b.Build()
	if g.EdgeCount() != m {
		log.Warn("metis edge count mismatch", "line", headerLine, "declared", m, "found", g.EdgeCount())
	}
	return g, nil
}

func parseMETISHeader(text string, line int) (int, int, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0, 0, apperrors.FormatErrorf(line, "header must be \"<vertices> <edges>\", got %q", text)
	}
	if len(fields) > 2 && strings.Trim(fields[2], "0") != "" {
		return 0, 0, apperrors.FormatErrorf(line, "weighted graphs are not supported (fmt %s)", fields[2])
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, 0, apperrors.FormatErrorf(line, "invalid vertex count %q", fields[0])
	}
	m, err := strconv.Atoi(fields[1])
	if err != nil || m < 0 {
		return 0, 0, apperrors.FormatErrorf(line, "invalid edge count %q", fields[1])
	}
	return n, m, nil
}

// ImportMETIS reads a METIS file at path.
func ImportMETIS(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "%s file %s", "graph", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadMETIS(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteMETIS encodes g in METIS adjacency format.
func WriteMETIS(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", g.VertexCount(), g.EdgeCount())
	for v := range g.VertexCount() {
		for i, u := range g.Neighbors(v) {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(u + 1))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ExportMETIS writes g to a METIS file at path.
func ExportMETIS(path string, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteMETIS(f, g); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
