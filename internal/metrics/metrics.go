// Package metrics provides the lock-free in-process counters and latency
// histograms behind Engine.MetricsSnapshot. Exporters (Prometheus, OTel)
// read snapshots; nothing here performs I/O.
package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter or histogram.
type MetricID int

const (
	MetricDecisionGranted MetricID = iota
	MetricDecisionDenied
	MetricAuthenticationRequired
	MetricAuthorityBypass
	MetricPredicateGrant
	MetricACLGrantDecision
	MetricCacheHit
	MetricCacheMiss
	MetricStorageFailure
	MetricResourceNotFound
	MetricGrantOps
	MetricDenyOps
	MetricRevokeOps
	MetricResourceCreated
	MetricResourceDeleted
	MetricFilterEvaluated
	MetricFilterRemoved
	MetricPostCheckDenied
	MetricDecideLatency

	MetricIDCount
)

// HistogramBuckets is the bucket count for latency histograms. Bucket i
// counts samples below 100ns * 10^i; the last bucket is the overflow.
const HistogramBuckets = 8

// Config controls which instrument families are active.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds atomic counters and optional latency histograms. All
// methods are safe for concurrent use; a nil or disabled Metrics is a no-op.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [MetricIDCount]atomic.Uint64
	histograms    [MetricIDCount][HistogramBuckets]atomic.Uint64
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a Metrics instance. When cfg.Enabled is false all operations
// are no-ops and Snapshot returns empty maps.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatency,
	}
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id < 0 || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Add increments a counter by n.
func (m *Metrics) Add(id MetricID, n uint64) {
	if m == nil || !m.enabled || id < 0 || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(n)
}

// Observe records a duration sample into the histogram for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id < 0 || id >= MetricIDCount {
		return
	}
	m.histograms[id][bucketFor(d)].Add(1)
}

func bucketFor(d time.Duration) int {
	bound := 100 * time.Nanosecond
	for i := 0; i < HistogramBuckets-1; i++ {
		if d < bound {
			return i
		}
		bound *= 10
	}
	return HistogramBuckets - 1
}

// Snapshot deep-copies the current values. Counters at zero are included;
// histograms appear only when latency recording is enabled.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   make(map[MetricID]uint64, MetricIDCount),
		Histograms: make(map[MetricID][]uint64),
	}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	if m.enableLatency {
		buckets := make([]uint64, HistogramBuckets)
		for i := 0; i < HistogramBuckets; i++ {
			buckets[i] = m.histograms[MetricDecideLatency][i].Load()
		}
		snap.Histograms[MetricDecideLatency] = buckets
	}
	return snap
}
