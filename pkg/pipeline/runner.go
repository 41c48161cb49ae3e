package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/matzehuels/homcount/pkg/brute"
	"github.com/matzehuels/homcount/pkg/cache"
	"github.com/matzehuels/homcount/pkg/hom"
	"github.com/matzehuels/homcount/pkg/observability"
)

var tracer = otel.Tracer("homcount/pipeline")

// Runner executes pipelines against a shared cache. It holds no per-run
// state, so one Runner may serve concurrent calls with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// cachedResult is the part of a [Result] stored in the cache.
type cachedResult struct {
	Count   uint64      `json:"count"`
	Classes []hom.Class `json:"classes,omitempty"`
}

// Execute loads the inputs, plans the traversal and counts, consulting the
// cache unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "pipeline.execute")
	defer span.End()
	span.SetAttributes(attribute.String("mode", opts.Mode))

	res, err := r.execute(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", res.CacheInfo.Hit))
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (r *Runner) execute(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{Mode: opts.Mode}

	start := time.Now()
	in, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.LoadTime = time.Since(start)
	res.Stats.TargetVertices = in.Target.VertexCount()
	res.Stats.TargetEdges = in.Target.EdgeCount()
	opts.Logger.Debug("loaded inputs", "target", in.Target.VertexCount(), "duration", res.Stats.LoadTime)

	var plan *Plan
	if t := in.Decomposition; t != nil {
		start = time.Now()
		plan, err = NewPlan(t, opts.usesUniverse())
		if err != nil {
			return nil, err
		}
		res.Stats.PlanTime = time.Since(start)
		res.Stats.Nodes = t.NodeCount()
		res.Stats.Width = t.Width()
		res.Stats.PossibleEdges = plan.PossibleEdges()
		res.Stats.BranchNumber = plan.BranchNumber
		res.Stats.PeakLiveTables = plan.PeakLiveTables
		observability.Pipeline().OnPlanComplete(ctx, t.NodeCount(), t.Width(), plan.PossibleEdges(), res.Stats.PlanTime)
		opts.Logger.Debug("planned traversal",
			"nodes", t.NodeCount(),
			"width", t.Width(),
			"branch_number", plan.BranchNumber,
			"possible_edges", plan.PossibleEdges())
	}

	key := opts.cacheKey(r.Keyer, in)
	res.CacheInfo.Key = key
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached cachedResult
			if err := json.Unmarshal(data, &cached); err == nil {
				res.Count = cached.Count
				res.Classes = cached.Classes
				res.CacheInfo.Hit = true
				opts.Logger.Debug("cache hit", "key", key)
				return res, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
	}

	hooks := observability.Pipeline()
	hooks.OnCountStart(ctx, opts.Mode)
	start = time.Now()
	err = r.count(ctx, opts, in, plan, res)
	res.Stats.CountTime = time.Since(start)
	hooks.OnCountComplete(ctx, opts.Mode, res.Stats.CountTime, err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("counted", "mode", opts.Mode, "count", res.Count, "classes", len(res.Classes), "duration", res.Stats.CountTime)

	if data, err := json.Marshal(cachedResult{Count: res.Count, Classes: res.Classes}); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		}
	}
	return res, nil
}

// count runs the engine or the oracle for the mode and fills res.
func (r *Runner) count(ctx context.Context, opts Options, in *Inputs, plan *Plan, res *Result) error {
	ctx, span := tracer.Start(ctx, "pipeline.count")
	defer span.End()

	switch {
	case opts.Mode == ModeBrute && opts.usesPattern():
		n, err := brute.Count(ctx, in.Pattern, in.Target)
		res.Count = n
		return err
	case opts.Mode == ModeBrute:
		classes, err := brute.Classes(ctx, plan.Universe, in.Decomposition.VertexCount(), in.Target)
		res.Classes = classes
		return err
	}

	e, err := hom.New(in.Decomposition, in.Target,
		hom.WithOrder(plan.Order),
		hom.WithTrackEdges(opts.TrackEdges || opts.Mode == ModeClasses),
		hom.WithWorkers(opts.Workers),
		hom.WithDeferredGC(opts.DeferredGC),
		hom.WithHooks(observability.Engine()),
		hom.WithLogger(opts.Logger),
	)
	if err != nil {
		return err
	}
	defer func() { res.Stats.Engine = e.Stats() }()

	switch opts.Mode {
	case ModeClasses:
		classes, err := e.Classes(ctx)
		if err != nil {
			return err
		}
		res.Classes = classes
	case ModeCount:
		n, err := e.Count(ctx, in.Pattern)
		if err != nil {
			return err
		}
		res.Count = n
	default:
		return fmt.Errorf("unhandled mode %q", opts.Mode)
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
