package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// ReadNTD decodes a nice tree decomposition from the .ntd format.
func ReadNTD(r io.Reader) (*ntd.NTD, error) {
	sc := bufio.NewScanner(r)

	var (
		b        *ntd.Builder
		declared int
		nodes    int
		line     int
	)

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "c", "#", "%":
			continue
		case "s":
			if b != nil {
				return nil, apperrors.FormatErrorf(line, "duplicate header")
			}
			if len(fields) != 4 {
				return nil, apperrors.FormatErrorf(line, "header must be \"s <nodes> <max bag size> <vertices>\"")
			}
			vals, err := atois(fields[1:], line)
			if err != nil {
				return nil, err
			}
			declared = vals[0]
			b = ntd.NewBuilder(vals[2])
		case "n":
			if b == nil {
				return nil, apperrors.FormatErrorf(line, "node record before header")
			}
			if len(fields) < 3 {
				return nil, apperrors.FormatErrorf(line, "node record must be \"n <id> <type> <bag...>\"")
			}
			ids, err := atois(fields[1:2], line)
			if err != nil {
				return nil, err
			}
			typ, ok := ntd.ParseNodeType(fields[2])
			if !ok {
				return nil, apperrors.FormatErrorf(line, "unknown node type %q", fields[2])
			}
			bag, err := atois(fields[3:], line)
			if err != nil {
				return nil, err
			}
			for i := range bag {
				bag[i]--
			}
			if err := b.AddNode(ntd.NodeID(ids[0]-1), typ, bag); err != nil {
				return nil, atLine(err, line)
			}
			nodes++
		case "a":
			if b == nil {
				return nil, apperrors.FormatErrorf(line, "adjacency record before header")
			}
			if len(fields) != 3 {
				return nil, apperrors.FormatErrorf(line, "adjacency record must be \"a <parent> <child>\"")
			}
			ids, err := atois(fields[1:], line)
			if err != nil {
				return nil, err
			}
			if err := b.AddChild(ntd.NodeID(ids[0]-1), ntd.NodeID(ids[1]-1)); err != nil {
				return nil, atLine(err, line)
			}
		default:
			return nil, apperrors.FormatErrorf(line, "unknown record %q", fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ntd: %w", err)
	}
	if b == nil {
		return nil, apperrors.FormatErrorf(line, "missing header line")
	}
	if nodes != declared {
		return nil, apperrors.FormatErrorf(line, "header declares %d nodes, found %d", declared, nodes)
	}
	return b.Build()
}

// atois parses positive integers.
func atois(fields []string, line int) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 1 {
			return nil, apperrors.FormatErrorf(line, "expected a positive integer, got %q", f)
		}
		out[i] = v
	}
	return out, nil
}

// atLine pins a builder error to an input line.
func atLine(err error, line int) error {
	var e *apperrors.Error
	if errors.As(err, &e) && e.Line == 0 {
		e.Line = line
	}
	return err
}

// ImportNTD reads a .ntd file at path.
func ImportNTD(path string) (*ntd.NTD, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "%s file %s", "decomposition", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadNTD(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteNTD encodes t in the .ntd format. Children keep their order, so the
// output reads back into an identical decomposition.
func WriteNTD(w io.Writer, t *ntd.NTD) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "s %d %d %d\n", t.NodeCount(), t.MaxBagSize(), t.VertexCount())
	for _, p := range t.Nodes() {
		fmt.Fprintf(bw, "n %d %c", p+1, t.Type(p).Symbol())
		for _, v := range t.Bag(p) {
			fmt.Fprintf(bw, " %d", v+1)
		}
		bw.WriteByte('\n')
	}
	for _, p := range t.Nodes() {
		for _, c := range t.Children(p) {
			fmt.Fprintf(bw, "a %d %d\n", p+1, c+1)
		}
	}
	return bw.Flush()
}

// ExportNTD writes t to a .ntd file at path.
func ExportNTD(path string, t *ntd.NTD) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteNTD(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
