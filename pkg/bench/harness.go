package bench

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/homcount/pkg/brute"
	"github.com/matzehuels/homcount/pkg/edges"
	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/hom"
	homio "github.com/matzehuels/homcount/pkg/io"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// Algorithms measured by the harness.
const (
	AlgorithmClasses   = "classes"
	AlgorithmCountEach = "count-each"
	AlgorithmBrute     = "brute"
)

// Algorithms lists every algorithm name.
var Algorithms = []string{AlgorithmClasses, AlgorithmCountEach, AlgorithmBrute}

// DefaultRepetitions is the number of timed runs per algorithm and pair.
const DefaultRepetitions = 5

// MaxEnumeratedEdges bounds the universe size for the algorithms that visit
// every subgraph one at a time.
const MaxEnumeratedEdges = 20

// Dirs locates the files named in a matrix.
type Dirs struct {
	Decompositions string
	Targets        string
}

// Harness times algorithms over the pairs of a [Matrix].
type Harness struct {
	Repetitions int
	Workers     int
	// Algorithms defaults to classes and count-each.
	Algorithms []string
	Logger     *log.Logger

	// OnRecord, if set, receives every record as soon as it is complete.
	OnRecord func(Record)
}

type loaded struct {
	t     *ntd.NTD
	order []ntd.NodeID
	u     *edges.Universe
}

// Run measures every marked pair. All records of one call share a RunID.
func (h *Harness) Run(ctx context.Context, m *Matrix, dirs Dirs) ([]Record, error) {
	if err := h.setDefaults(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	h.Logger.Info("starting benchmark", "run", runID, "pairs", len(m.Pairs()), "repetitions", h.Repetitions)

	decomps := make(map[string]*loaded)
	targets := make(map[string]*graph.Graph)
	var records []Record

	for _, p := range m.Pairs() {
		d, ok := decomps[p.Decomposition]
		if !ok {
			var err error
			if d, err = loadDecomposition(filepath.Join(dirs.Decompositions, p.Decomposition)); err != nil {
				return records, err
			}
			decomps[p.Decomposition] = d
		}
		g, ok := targets[p.Target]
		if !ok {
			var err error
			if g, err = homio.ImportMETIS(filepath.Join(dirs.Targets, p.Target)); err != nil {
				return records, err
			}
			targets[p.Target] = g
		}

		for _, alg := range h.Algorithms {
			if alg != AlgorithmClasses && d.u.Len() > MaxEnumeratedEdges {
				h.Logger.Warn("skipping pair", "algorithm", alg, "decomposition", p.Decomposition,
					"possible_edges", d.u.Len(), "max", MaxEnumeratedEdges)
				continue
			}
			h.Logger.Info("measuring", "algorithm", alg, "decomposition", p.Decomposition, "target", p.Target)

			durations := make([]time.Duration, 0, h.Repetitions)
			for i := 0; i < h.Repetitions; i++ {
				start := time.Now()
				if err := h.measure(ctx, alg, d, g); err != nil {
					return records, err
				}
				elapsed := time.Since(start)
				h.Logger.Debug("repetition", "n", i+1, "duration", elapsed)
				durations = append(durations, elapsed)
			}

			rec := Record{
				RunID:          runID,
				Algorithm:      alg,
				Decomposition:  p.Decomposition,
				Width:          d.t.Width(),
				Nodes:          d.t.NodeCount(),
				PossibleEdges:  d.u.Len(),
				Vertices:       d.t.VertexCount(),
				Target:         p.Target,
				TargetVertices: g.VertexCount(),
				TargetEdges:    g.EdgeCount(),
				Durations:      durations,
				Mean:           mean(durations),
				CreatedAt:      time.Now().UTC(),
			}
			h.Logger.Info("measured", "algorithm", alg, "mean", rec.Mean)
			records = append(records, rec)
			if h.OnRecord != nil {
				h.OnRecord(rec)
			}
		}
	}
	return records, nil
}

func (h *Harness) setDefaults() error {
	if h.Repetitions == 0 {
		h.Repetitions = DefaultRepetitions
	}
	if err := errors.ValidateRepetitions(h.Repetitions); err != nil {
		return err
	}
	if err := errors.ValidateWorkers(h.Workers); err != nil {
		return err
	}
	if len(h.Algorithms) == 0 {
		h.Algorithms = []string{AlgorithmClasses, AlgorithmCountEach}
	}
	for _, a := range h.Algorithms {
		if err := errors.ValidateChoice("algorithm", a, Algorithms); err != nil {
			return err
		}
	}
	if h.Logger == nil {
		h.Logger = log.New(io.Discard)
	}
	return nil
}

func loadDecomposition(path string) (*loaded, error) {
	t, err := homio.ImportNTD(path)
	if err != nil {
		return nil, err
	}
	order := ntd.StingyOrder(t)
	u, err := edges.Build(t, order)
	if err != nil {
		return nil, err
	}
	return &loaded{t: t, order: order, u: u}, nil
}

// measure runs alg once.
func (h *Harness) measure(ctx context.Context, alg string, d *loaded, g *graph.Graph) error {
	switch alg {
	case AlgorithmClasses:
		e, err := hom.New(d.t, g, hom.WithTrackEdges(true), hom.WithWorkers(h.Workers), hom.WithOrder(d.order))
		if err != nil {
			return err
		}
		_, err = e.Classes(ctx)
		return err
	case AlgorithmCountEach:
		e, err := hom.New(d.t, g, hom.WithWorkers(h.Workers), hom.WithOrder(d.order))
		if err != nil {
			return err
		}
		full := d.u.Full()
		for m := edges.Mask(0); ; m++ {
			if _, err := e.Count(ctx, d.u.Graph(m, d.t.VertexCount())); err != nil {
				return err
			}
			if m == full {
				return nil
			}
		}
	case AlgorithmBrute:
		_, err := brute.Classes(ctx, d.u, d.t.VertexCount(), g)
		return err
	}
	return errors.New(errors.ErrCodeInvalidMode, "unknown algorithm %q", alg)
}
