package hom

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/homcount/pkg/edges"
	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/graph"
	"github.com/matzehuels/homcount/pkg/intfunc"
	"github.com/matzehuels/homcount/pkg/ntd"
	"github.com/matzehuels/homcount/pkg/observability"
)

var tracer = otel.Tracer("homcount/hom")

// Limits on a single node table. Every mask costs a map entry and a slice
// header on top of its counts.
const (
	maxTableEntries = 1 << 26
	maxMaskBits     = 20
)

// table maps an edge subset to the counts of every mapping of a bag. The
// basic variant only uses mask 0.
type table map[edges.Mask][]uint64

func (t table) entries() int {
	n := 0
	for _, v := range t {
		n += len(v)
	}
	return n
}

// Stats describes the last traversal.
type Stats struct {
	NodesProcessed  int                      `json:"nodes_processed"`
	PeakLiveNodes   int                      `json:"peak_live_nodes"`
	PeakLiveEntries int                      `json:"peak_live_entries"`
	Collected       int                      `json:"collected_entries"`
	Duration        time.Duration            `json:"duration"`
	ByType          map[string]time.Duration `json:"by_type"`
}

// Option configures an [Engine].
type Option func(*Engine)

// WithTrackEdges makes [Engine.Count] use the edge-subset recurrences and
// builds the edge universe up front.
func WithTrackEdges(on bool) Option {
	return func(e *Engine) { e.trackEdges = on }
}

// WithWorkers splits the per-node loops across n goroutines. Values below 2
// keep the engine sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithDeferredGC keeps every node table until the root has been computed.
func WithDeferredGC(on bool) Option {
	return func(e *Engine) { e.deferredGC = on }
}

// WithHooks sets the hooks that receive per-node events.
func WithHooks(h observability.EngineHooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOrder replaces the stingy order. Every child must precede its parent.
func WithOrder(order []ntd.NodeID) Option {
	return func(e *Engine) { e.order = slices.Clone(order) }
}

// Engine runs the dynamic program for one decomposition and one target
// graph. It can be reused for several patterns but is not safe for
// concurrent use.
type Engine struct {
	t        *ntd.NTD
	g        *graph.Graph
	codec    intfunc.Codec
	order    []ntd.NodeID
	universe *edges.Universe

	trackEdges  bool
	deferredGC  bool
	workers     int
	minParallel uint64
	hooks       observability.EngineHooks
	logger      *log.Logger

	tables      []table
	liveNodes   int
	liveEntries int
	stats       Stats
}

// New returns an engine for decomposition t and target g. The root bag of t
// must be empty.
func New(t *ntd.NTD, g *graph.Graph, opts ...Option) (*Engine, error) {
	e := &Engine{
		t:           t,
		g:           g,
		codec:       intfunc.New(g.VertexCount()),
		minParallel: 4096,
		hooks:       observability.NoopEngineHooks{},
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := apperrors.ValidateWorkers(e.workers); err != nil {
		return nil, err
	}
	if e.order == nil {
		e.order = ntd.StingyOrder(t)
	} else if err := validateOrder(t, e.order); err != nil {
		return nil, err
	}
	if root := t.Root(); len(t.Bag(root)) != 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"root node %d has %d bag vertices, want 0", root, len(t.Bag(root)))
	}
	if e.trackEdges {
		u, err := e.Universe()
		if err != nil {
			return nil, err
		}
		if err := e.checkBudget(u); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func validateOrder(t *ntd.NTD, order []ntd.NodeID) error {
	if len(order) != t.NodeCount() {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"order lists %d nodes, decomposition has %d", len(order), t.NodeCount())
	}
	seen := make([]bool, t.NodeCount())
	for _, p := range order {
		if !t.Has(p) || seen[p] {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "order repeats or invents node %d", p)
		}
		for _, c := range t.Children(p) {
			if !seen[c] {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "order visits node %d before its child %d", p, c)
			}
		}
		seen[p] = true
	}
	return nil
}

// Universe returns the possible-edge universe, building it on first use.
func (e *Engine) Universe() (*edges.Universe, error) {
	if e.universe == nil {
		u, err := edges.Build(e.t, e.order)
		if err != nil {
			return nil, err
		}
		e.universe = u
	}
	return e.universe, nil
}

// Order returns the traversal order.
func (e *Engine) Order() []ntd.NodeID { return slices.Clone(e.order) }

// Stats returns statistics of the last traversal.
func (e *Engine) Stats() Stats { return e.stats }

// LiveNodes returns the nodes whose tables are still held, in id order.
// After a successful run this is only the root.
func (e *Engine) LiveNodes() []ntd.NodeID {
	var out []ntd.NodeID
	for p, tab := range e.tables {
		if tab != nil {
			out = append(out, ntd.NodeID(p))
		}
	}
	return out
}

// Count returns Hom(h, G). The decomposition must cover h: h has exactly its
// vertices, each of them appears in some bag and both endpoints of every edge
// share a bag.
func (e *Engine) Count(ctx context.Context, h *graph.Graph) (uint64, error) {
	if e.trackEdges {
		return e.ClassCount(ctx, h)
	}
	if err := e.checkPattern(h); err != nil {
		return 0, err
	}
	root, err := e.run(ctx, "basic", h)
	if err != nil {
		return 0, err
	}
	return root[0][0], nil
}

// checkPattern verifies that h has the decomposition's vertices and that
// every edge of h is checked at some node.
func (e *Engine) checkPattern(h *graph.Graph) error {
	if h.VertexCount() != e.t.VertexCount() {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"pattern has %d vertices, decomposition covers %d", h.VertexCount(), e.t.VertexCount())
	}
	inBag := make([]bool, e.t.VertexCount())
	covered := make(map[graph.Edge]bool, h.EdgeCount())
	for _, p := range e.order {
		for _, v := range e.t.Bag(p) {
			inBag[v] = true
		}
		if e.t.Type(p) != ntd.Introduce {
			continue
		}
		v, ok := e.t.UniqueVertex(p)
		if !ok {
			continue
		}
		for _, u := range e.t.Bag(p) {
			covered[graph.Edge{U: u, V: v}.Normalize()] = true
		}
	}
	for v := range h.VertexCount() {
		if !inBag[v] {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "vertex %d of the pattern is in no bag", v)
		}
	}
	for _, edge := range h.Edges() {
		if edge.IsLoop() {
			continue // checked at the vertex's Leaf or Introduce node
		}
		if !covered[edge] {
			return apperrors.New(apperrors.ErrCodeInvalidInput,
				"edge %s of the pattern is not covered by the decomposition", edge)
		}
	}
	return nil
}

// run evaluates every node in order. A nil pattern selects the edge-subset
// recurrences.
func (e *Engine) run(ctx context.Context, variant string, h *graph.Graph) (table, error) {
	ctx, span := tracer.Start(ctx, "hom.run",
		trace.WithAttributes(
			attribute.String("variant", variant),
			attribute.Int("nodes", e.t.NodeCount()),
			attribute.Int("width", e.t.Width()),
			attribute.Int("target_vertices", e.g.VertexCount()),
			attribute.Int("workers", e.workers),
		),
	)
	defer span.End()

	start := time.Now()
	root, err := e.traverse(ctx, h)
	e.stats.Duration = time.Since(start)
	e.hooks.OnRunComplete(ctx, variant, e.stats.Duration, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "traversal failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("peak_live_nodes", e.stats.PeakLiveNodes),
		attribute.Int("peak_live_entries", e.stats.PeakLiveEntries),
	)
	span.SetStatus(codes.Ok, "root reached")
	e.logger.Debug("traversal complete", "variant", variant,
		"nodes", e.stats.NodesProcessed, "peak_nodes", e.stats.PeakLiveNodes,
		"peak_entries", e.stats.PeakLiveEntries, "elapsed", e.stats.Duration)
	return root, nil
}

func (e *Engine) traverse(ctx context.Context, h *graph.Graph) (table, error) {
	e.tables = make([]table, e.t.NodeCount())
	e.liveNodes, e.liveEntries = 0, 0
	e.stats = Stats{ByType: make(map[string]time.Duration)}

	var u *edges.Universe
	if h == nil {
		var err error
		if u, err = e.Universe(); err != nil {
			return nil, err
		}
		if err := e.checkBudget(u); err != nil {
			return nil, err
		}
	}

	for _, p := range e.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		var tab table
		var err error
		switch typ := e.t.Type(p); typ {
		case ntd.Leaf:
			tab, err = e.leaf(ctx, p, h, u)
		case ntd.Introduce:
			tab, err = e.introduce(ctx, p, h, u)
		case ntd.Forget:
			tab, err = e.forget(ctx, p, u)
		case ntd.Join:
			tab, err = e.join(ctx, p, u)
		default:
			err = e.violation(p, "unknown node type %d", typ)
		}
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		e.store(p, tab)
		e.stats.NodesProcessed++
		e.stats.ByType[e.t.Type(p).String()] += elapsed
		e.hooks.OnNode(ctx, e.t.Type(p).String(), len(tab), elapsed)
		e.logger.Debug("node", "id", p, "type", e.t.Type(p), "masks", len(tab), "entries", tab.entries())

		if !e.deferredGC {
			e.collect(ctx, e.t.Children(p)...)
		}
	}

	root := e.t.Root()
	if e.deferredGC {
		var rest []ntd.NodeID
		for _, p := range e.order {
			if p != root {
				rest = append(rest, p)
			}
		}
		e.collect(ctx, rest...)
	}
	return e.tables[root], nil
}

func (e *Engine) store(p ntd.NodeID, tab table) {
	e.tables[p] = tab
	e.liveNodes++
	e.liveEntries += tab.entries()
	e.stats.PeakLiveNodes = max(e.stats.PeakLiveNodes, e.liveNodes)
	e.stats.PeakLiveEntries = max(e.stats.PeakLiveEntries, e.liveEntries)
}

// collect drops the tables of the given nodes.
func (e *Engine) collect(ctx context.Context, nodes ...ntd.NodeID) {
	freed := 0
	for _, q := range nodes {
		tab := e.tables[q]
		if tab == nil {
			continue
		}
		n := tab.entries()
		freed += n
		e.liveNodes--
		e.liveEntries -= n
		e.tables[q] = nil
	}
	if freed > 0 {
		e.stats.Collected += freed
		e.hooks.OnCollect(ctx, freed)
	}
}

// checkBudget verifies that every table of the edge-subset variant fits the
// limits before any mask is enumerated.
func (e *Engine) checkBudget(u *edges.Universe) error {
	for _, p := range e.order {
		k := edges.Size(u.PossibleMask(p))
		if k > maxMaskBits {
			return apperrors.New(apperrors.ErrCodeArithmeticRange,
				"node %d has %d possible edges, at most %d fit a table", p, k, maxMaskBits)
		}
		if _, err := e.tableSize(p, 1<<k); err != nil {
			return err
		}
	}
	return nil
}

// tableSize returns n^|bag(p)| after checking that it can be allocated.
func (e *Engine) tableSize(p ntd.NodeID, masks int) (uint64, error) {
	size, err := intfunc.CheckedCount(uint64(len(e.t.Bag(p))), e.codec.Base())
	if err != nil {
		return 0, err
	}
	if size > 0 && uint64(masks) > maxTableEntries/size {
		return 0, apperrors.New(apperrors.ErrCodeArithmeticRange,
			"node %d needs %d x %d table entries", p, masks, size)
	}
	return size, nil
}
