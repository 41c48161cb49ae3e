package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	ctx := context.Background()

	m.OnNode(ctx, "join", 25, time.Millisecond)
	m.OnNode(ctx, "join", 5, time.Millisecond)
	m.OnNode(ctx, "leaf", 5, time.Millisecond)
	m.OnCollect(ctx, 30)
	m.OnCountComplete(ctx, "count", time.Second, nil)
	m.OnCountComplete(ctx, "count", time.Second, errors.New("boom"))
	m.OnCacheHit(ctx, "count")
	m.OnCacheSet(ctx, "count", 512)
	m.OnResponse(ctx, "POST", "/v1/count", 200, time.Millisecond)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"join nodes", m.nodesTotal.WithLabelValues("join"), 2},
		{"leaf nodes", m.nodesTotal.WithLabelValues("leaf"), 1},
		{"collected", m.collected, 30},
		{"ok counts", m.countTotal.WithLabelValues("count", "ok"), 1},
		{"failed counts", m.countTotal.WithLabelValues("count", "error"), 1},
		{"cache hits", m.cacheTotal.WithLabelValues("count", "hit"), 1},
		{"cache bytes", m.cacheBytes, 512},
		{"http", m.httpTotal.WithLabelValues("POST", "/v1/count", "200"), 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewMetricsOnSeparateRegistries(t *testing.T) {
	// each registry gets its own collectors; no duplicate registration panic
	NewMetrics(prometheus.NewRegistry())
	NewMetrics(prometheus.NewRegistry())
}
