// Package pipeline runs the load → plan → count pipeline shared by the CLI,
// the HTTP API and the benchmark harness.
//
// # Stages
//
//  1. Load: read the decomposition, the pattern and the target, either from
//     paths or from inline bytes
//  2. Plan: compute the stingy traversal order and, when edge subsets are
//     tracked, the edge universe
//  3. Count: run the engine (or the brute-force oracle) and cache the result
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Mode:          pipeline.ModeCount,
//	    Decomposition: "tree.ntd",
//	    Pattern:       "5: 0-1 1-3 1-2 2-4",
//	    Target:        "k5.graph",
//	})
//	fmt.Println(res.Count)
//
// Results are cached under the SHA-256 of the input bytes plus the mode, so
// repeated runs over unchanged files return without touching the engine.
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/homcount/pkg/cache"
	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/hom"
)

// Modes accepted by [Options.Mode].
const (
	// ModeCount counts homomorphisms from one pattern.
	ModeCount = "count"

	// ModeClasses counts every spanning subgraph of the edge universe.
	ModeClasses = "classes"

	// ModeBrute enumerates all vertex maps. With a pattern it counts that
	// pattern; without one it produces the classes of the decomposition.
	ModeBrute = "brute"
)

// ValidModes lists the accepted modes.
var ValidModes = []string{ModeCount, ModeClasses, ModeBrute}

// DefaultTTL is how long results stay cached. Counts never change for the
// same inputs, so entries only expire to bound the cache size.
const DefaultTTL = 30 * 24 * time.Hour

// Options configures one pipeline run.
type Options struct {
	Mode string `json:"mode"`

	// Decomposition is the path of a .ntd file.
	Decomposition string `json:"decomposition,omitempty"`
	// Pattern is the path of a METIS file or an edge-list expression.
	Pattern string `json:"pattern,omitempty"`
	// Target is the path of a METIS file.
	Target string `json:"target,omitempty"`

	// Inline contents. When set they take the place of the paths above.
	DecompositionData []byte `json:"-"`
	PatternData       []byte `json:"-"`
	TargetData        []byte `json:"-"`

	Workers    int  `json:"workers,omitempty"`
	TrackEdges bool `json:"track_edges,omitempty"`
	DeferredGC bool `json:"deferred_gc,omitempty"`
	Refresh    bool `json:"refresh,omitempty"`

	TTL    time.Duration `json:"-"`
	Logger *log.Logger   `json:"-"`

	validated bool
}

// Result is the outcome of a run.
type Result struct {
	Mode      string      `json:"mode" yaml:"mode"`
	Count     uint64      `json:"count" yaml:"count"`
	Classes   []hom.Class `json:"classes,omitempty" yaml:"classes,omitempty"`
	Stats     Stats       `json:"stats" yaml:"stats"`
	CacheInfo CacheInfo   `json:"cache" yaml:"cache"`
}

// Stats describes the inputs and the time spent in each stage.
type Stats struct {
	Nodes          int           `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Width          int           `json:"width,omitempty" yaml:"width,omitempty"`
	PossibleEdges  int           `json:"possible_edges,omitempty" yaml:"possible_edges,omitempty"`
	BranchNumber   int           `json:"branch_number,omitempty" yaml:"branch_number,omitempty"`
	PeakLiveTables int           `json:"peak_live_tables,omitempty" yaml:"peak_live_tables,omitempty"`
	TargetVertices int           `json:"target_vertices" yaml:"target_vertices"`
	TargetEdges    int           `json:"target_edges" yaml:"target_edges"`
	LoadTime       time.Duration `json:"load_time" yaml:"load_time"`
	PlanTime       time.Duration `json:"plan_time" yaml:"plan_time"`
	CountTime      time.Duration `json:"count_time" yaml:"count_time"`
	Engine         hom.Stats     `json:"engine" yaml:"engine"`
}

// CacheInfo reports whether the result came from the cache.
type CacheInfo struct {
	Key string `json:"key" yaml:"key"`
	Hit bool   `json:"hit" yaml:"hit"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Mode == "" {
		o.Mode = ModeCount
	}
	if err := errors.ValidateChoice("mode", o.Mode, ValidModes); err != nil {
		return errors.New(errors.ErrCodeInvalidMode, "%s", errors.UserMessage(err))
	}

	hasNTD := o.Decomposition != "" || o.DecompositionData != nil
	hasPattern := o.Pattern != "" || o.PatternData != nil
	if o.Target == "" && o.TargetData == nil {
		return errors.New(errors.ErrCodeInvalidInput, "target graph is required")
	}
	switch o.Mode {
	case ModeCount:
		if !hasNTD || !hasPattern {
			return errors.New(errors.ErrCodeInvalidInput, "count needs a decomposition and a pattern")
		}
	case ModeClasses:
		if !hasNTD {
			return errors.New(errors.ErrCodeInvalidInput, "classes needs a decomposition")
		}
	case ModeBrute:
		if !hasNTD && !hasPattern {
			return errors.New(errors.ErrCodeInvalidInput, "brute needs a pattern or a decomposition")
		}
	}

	if err := errors.ValidateWorkers(o.Workers); err != nil {
		return err
	}
	if o.Workers == 0 {
		o.Workers = min(runtime.GOMAXPROCS(0), errors.MaxWorkers)
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// usesPattern reports whether the mode counts a single pattern.
func (o *Options) usesPattern() bool {
	return o.Mode == ModeCount || (o.Mode == ModeBrute && (o.Pattern != "" || o.PatternData != nil))
}

// usesUniverse reports whether the run needs the edge universe.
func (o *Options) usesUniverse() bool {
	return o.Mode == ModeClasses || (o.Mode == ModeCount && o.TrackEdges) || (o.Mode == ModeBrute && !o.usesPattern())
}

// cacheKey derives the result key from the input hashes.
func (o *Options) cacheKey(k cache.Keyer, in *Inputs) string {
	if o.Mode == ModeClasses || (o.Mode == ModeBrute && !o.usesPattern()) {
		return k.ClassesKey(cache.ClassesKeyOpts{
			Mode:          o.Mode,
			Decomposition: in.DecompositionHash,
			Target:        in.TargetHash,
		})
	}
	return k.CountKey(cache.CountKeyOpts{
		Mode:          o.Mode,
		Decomposition: in.DecompositionHash,
		Pattern:       in.PatternHash,
		Target:        in.TargetHash,
	})
}
