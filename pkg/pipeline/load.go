package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/homcount/pkg/cache"
	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
	homio "github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
	"github.com/matzehuels/homcount/pkg/observability"
)

// Inputs are the decoded inputs of a run together with the hashes of their
// raw bytes.
type Inputs struct {
	Decomposition *ntd.NTD
	Pattern       *graph.Graph
	Target        *graph.Graph

	DecompositionHash string
	PatternHash       string
	TargetHash        string
}

// Load reads every input the mode needs. Parse failures are reported before
// any counting starts.
func Load(ctx context.Context, opts Options) (*Inputs, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	in := &Inputs{}

	if opts.Decomposition != "" || opts.DecompositionData != nil {
		raw, err := loadBytes(ctx, "decomposition", opts.Decomposition, opts.DecompositionData)
		if err != nil {
			return nil, err
		}
		t, err := homio.ReadNTD(bytes.NewReader(raw))
		if err != nil {
			return nil, withSource(opts.Decomposition, err)
		}
		in.Decomposition = t
		in.DecompositionHash = cache.Hash(raw)
	}

	if opts.usesPattern() {
		g, hash, err := loadPattern(ctx, opts)
		if err != nil {
			return nil, err
		}
		in.Pattern = g
		in.PatternHash = hash
	}

	raw, err := loadBytes(ctx, "target", opts.Target, opts.TargetData)
	if err != nil {
		return nil, err
	}
	g, err := homio.ReadMETIS(bytes.NewReader(raw))
	if err != nil {
		return nil, withSource(opts.Target, err)
	}
	in.Target = g
	in.TargetHash = cache.Hash(raw)
	return in, nil
}

// loadPattern reads the pattern as METIS, unless the Pattern field names no
// file and reads as an edge-list expression.
func loadPattern(ctx context.Context, opts Options) (*graph.Graph, string, error) {
	if opts.PatternData == nil && isEdgeList(opts.Pattern) {
		g, err := homio.ParseEdgeList(opts.Pattern)
		if err != nil {
			return nil, "", err
		}
		return g, cache.Hash([]byte(opts.Pattern)), nil
	}

	raw, err := loadBytes(ctx, "pattern", opts.Pattern, opts.PatternData)
	if err != nil {
		return nil, "", err
	}
	g, err := homio.ReadMETIS(bytes.NewReader(raw))
	if err != nil {
		return nil, "", withSource(opts.Pattern, err)
	}
	return g, cache.Hash(raw), nil
}

// isEdgeList reports whether s should be parsed as an edge-list expression
// rather than opened as a file.
func isEdgeList(s string) bool {
	if _, err := os.Stat(s); err == nil {
		return false
	}
	return strings.ContainsAny(s, "-:") && strings.Trim(s, "0123456789-:, \t") == ""
}

func loadBytes(ctx context.Context, kind, path string, data []byte) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, kind)
	start := time.Now()

	if data != nil {
		hooks.OnLoadComplete(ctx, kind, len(data), time.Since(start), nil)
		return data, nil
	}
	if err := errors.ValidateInputPath(path); err != nil {
		hooks.OnLoadComplete(ctx, kind, 0, time.Since(start), err)
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		err = errors.Wrap(errors.ErrCodeFileNotFound, err, "%s file %s", kind, path)
	} else if err != nil {
		err = fmt.Errorf("read %s: %w", path, err)
	}
	hooks.OnLoadComplete(ctx, kind, len(raw), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func withSource(path string, err error) error {
	if path == "" {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}
