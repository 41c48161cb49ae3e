// Package observability provides hooks for metrics, tracing, and logging.
//
// Library packages emit events through small hook interfaces and never
// depend on a metrics backend directly. The defaults are no-ops; a binary
// registers real implementations at startup:
//
//	func main() {
//	    m := observability.NewMetrics(prometheus.DefaultRegisterer)
//	    observability.SetPipelineHooks(m)
//	    observability.SetCacheHooks(m)
//	    observability.SetEngineHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLoadStart(ctx, "target")
//	// ... read the METIS file ...
//	observability.Pipeline().OnLoadComplete(ctx, "target", size, time.Since(start), err)
//
// The DP engine takes its hooks as an option rather than from the registry,
// so concurrent engines in one process can report to different sinks.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the counting pipeline.
type PipelineHooks interface {
	// Load events. Kind is "pattern", "decomposition" or "target".
	OnLoadStart(ctx context.Context, kind string)
	OnLoadComplete(ctx context.Context, kind string, size int, duration time.Duration, err error)

	// Plan events cover stingy ordering and the edge universe.
	OnPlanComplete(ctx context.Context, nodes, width, possibleEdges int, duration time.Duration)

	// Count events. Mode is "count", "classes" or "brute".
	OnCountStart(ctx context.Context, mode string)
	OnCountComplete(ctx context.Context, mode string, duration time.Duration, err error)
}

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the dynamic program.
type EngineHooks interface {
	// OnNode records one processed node and the size of its new table.
	OnNode(ctx context.Context, nodeType string, entries int, duration time.Duration)

	// OnCollect records child table entries released after use.
	OnCollect(ctx context.Context, entries int)

	// OnRunComplete records a whole traversal.
	OnRunComplete(ctx context.Context, variant string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnPlanComplete(context.Context, int, int, int, time.Duration)      {}
func (NoopPipelineHooks) OnCountStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnCountComplete(context.Context, string, time.Duration, error)     {}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnNode(context.Context, string, int, time.Duration)          {}
func (NoopEngineHooks) OnCollect(context.Context, int)                              {}
func (NoopEngineHooks) OnRunComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set. Reads are lock-free since the engine
// fetches its hooks once per node.
type slot[T any] struct {
	noop T
	v    atomic.Pointer[T]
}

func (s *slot[T]) load() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.noop
}

// store registers h. A nil h leaves the current hooks in place.
func (s *slot[T]) store(h T) {
	if any(h) != nil {
		s.v.Store(&h)
	}
}

func (s *slot[T]) reset() { s.v.Store(nil) }

var (
	pipelineSlot = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	engineSlot   = slot[EngineHooks]{noop: NoopEngineHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetPipelineHooks registers the hooks used by pipeline loads, plans and
// counts. Call it at startup, before the first run.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.store(h) }

// SetEngineHooks registers the hooks handed to engines created by the
// pipeline and the HTTP API.
func SetEngineHooks(h EngineHooks) { engineSlot.store(h) }

// SetCacheHooks registers the hooks used by every cache backend.
func SetCacheHooks(h CacheHooks) { cacheSlot.store(h) }

// SetHTTPHooks registers the hooks used by the API middleware.
func SetHTTPHooks(h HTTPHooks) { httpSlot.store(h) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.load() }

// Engine returns the registered engine hooks.
func Engine() EngineHooks { return engineSlot.load() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.load() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.load() }

// Reset restores the no-op hooks. serve calls it on shutdown so that a
// later command in the same process does not report to a dead registry.
func Reset() {
	pipelineSlot.reset()
	engineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
