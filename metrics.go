package hybridscan

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems;
// PrometheusCollector is the built-in Prometheus integration.
type MetricsCollector interface {
	// RecordSearch is called after each Search or Count.
	// subQueries is the number of sub-queries, hits the number of returned
	// (Search) or counted (Count) documents.
	RecordSearch(subQueries, hits int, duration time.Duration, err error)

	// RecordScan is called once per scored segment with the number of
	// windows evaluated and the number of matching rows found.
	RecordScan(windows, matches int)

	// RecordSegmentLoad is called after each segment load.
	RecordSegmentLoad(bytes int64, duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordScan(int, int)                           {}
func (NoopMetricsCollector) RecordSegmentLoad(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordDelete(error)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchHits       atomic.Int64
	SearchTotalNanos atomic.Int64
	Windows          atomic.Int64
	Matches          atomic.Int64
	SegmentLoads     atomic.Int64
	SegmentBytes     atomic.Int64
	LoadErrors       atomic.Int64
	DeleteCount      atomic.Int64
	DeleteErrors     atomic.Int64
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_, hits int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.SearchHits.Add(int64(hits))
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(windows, matches int) {
	b.Windows.Add(int64(windows))
	b.Matches.Add(int64(matches))
}

// RecordSegmentLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSegmentLoad(bytes int64, _ time.Duration, err error) {
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.SegmentLoads.Add(1)
	b.SegmentBytes.Add(bytes)
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchHits:     b.SearchHits.Load(),
		SearchAvgNanos: b.getAvgSearchNanos(),
		Windows:        b.Windows.Load(),
		Matches:        b.Matches.Load(),
		SegmentLoads:   b.SegmentLoads.Load(),
		SegmentBytes:   b.SegmentBytes.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		DeleteCount:    b.DeleteCount.Load(),
		DeleteErrors:   b.DeleteErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SearchCount    int64
	SearchErrors   int64
	SearchHits     int64
	SearchAvgNanos int64
	Windows        int64
	Matches        int64
	SegmentLoads   int64
	SegmentBytes   int64
	LoadErrors     int64
	DeleteCount    int64
	DeleteErrors   int64
}
