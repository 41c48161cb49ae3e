package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements every hook interface on top of Prometheus collectors.
type Metrics struct {
	loadDuration  *prometheus.HistogramVec
	loadErrors    *prometheus.CounterVec
	planNodes     prometheus.Histogram
	possibleEdges prometheus.Histogram
	countDuration *prometheus.HistogramVec
	countTotal    *prometheus.CounterVec

	nodesTotal   *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	tableEntries prometheus.Histogram
	collected    prometheus.Counter
	runDuration  *prometheus.HistogramVec

	cacheTotal *prometheus.CounterVec
	cacheBytes prometheus.Counter

	httpTotal    *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	fast := []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10}
	return &Metrics{
		loadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homcount_load_duration_seconds",
			Help:    "Time spent reading inputs",
			Buckets: fast,
		}, []string{"kind"}),
		loadErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homcount_load_errors_total",
			Help: "Inputs that failed to parse",
		}, []string{"kind"}),
		planNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "homcount_plan_nodes",
			Help:    "Nodes per planned decomposition",
			Buckets: prometheus.ExponentialBuckets(4, 4, 8),
		}),
		possibleEdges: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "homcount_plan_possible_edges",
			Help:    "Size of the possible-edge universe",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		}),
		countDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homcount_count_duration_seconds",
			Help:    "Time spent counting",
			Buckets: fast,
		}, []string{"mode"}),
		countTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homcount_counts_total",
			Help: "Counting runs by mode and result",
		}, []string{"mode", "result"}),
		nodesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homcount_engine_nodes_total",
			Help: "Decomposition nodes processed by type",
		}, []string{"type"}),
		nodeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homcount_engine_node_duration_seconds",
			Help:    "Time spent per decomposition node",
			Buckets: fast,
		}, []string{"type"}),
		tableEntries: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "homcount_engine_table_entries",
			Help:    "Entries in a freshly computed node table",
			Buckets: prometheus.ExponentialBuckets(1, 8, 10),
		}),
		collected: f.NewCounter(prometheus.CounterOpts{
			Name: "homcount_engine_collected_entries_total",
			Help: "Child table entries released after use",
		}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homcount_engine_run_duration_seconds",
			Help:    "Duration of a full traversal",
			Buckets: fast,
		}, []string{"variant"}),
		cacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homcount_cache_operations_total",
			Help: "Cache operations by key type and outcome",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "homcount_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),
		httpTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homcount_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homcount_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: fast,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, kind string, _ int, d time.Duration, err error) {
	m.loadDuration.WithLabelValues(kind).Observe(d.Seconds())
	if err != nil {
		m.loadErrors.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) OnPlanComplete(_ context.Context, nodes, _, possibleEdges int, _ time.Duration) {
	m.planNodes.Observe(float64(nodes))
	m.possibleEdges.Observe(float64(possibleEdges))
}

func (m *Metrics) OnCountStart(context.Context, string) {}

func (m *Metrics) OnCountComplete(_ context.Context, mode string, d time.Duration, err error) {
	m.countDuration.WithLabelValues(mode).Observe(d.Seconds())
	m.countTotal.WithLabelValues(mode, result(err)).Inc()
}

func (m *Metrics) OnNode(_ context.Context, nodeType string, entries int, d time.Duration) {
	m.nodesTotal.WithLabelValues(nodeType).Inc()
	m.nodeDuration.WithLabelValues(nodeType).Observe(d.Seconds())
	m.tableEntries.Observe(float64(entries))
}

func (m *Metrics) OnCollect(_ context.Context, entries int) {
	m.collected.Add(float64(entries))
}

func (m *Metrics) OnRunComplete(_ context.Context, variant string, d time.Duration, _ error) {
	m.runDuration.WithLabelValues(variant).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheTotal.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ EngineHooks   = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
