package hybridscan

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector exports MetricsCollector events as Prometheus metrics.
type PrometheusCollector struct {
	searchesTotal  *prometheus.CounterVec
	searchDuration prometheus.Histogram
	searchHits     prometheus.Histogram
	windowsTotal   prometheus.Counter
	matchesTotal   prometheus.Counter
	loadsTotal     *prometheus.CounterVec
	loadedBytes    prometheus.Counter
	loadDuration   prometheus.Histogram
	deletesTotal   *prometheus.CounterVec
}

// Ensure PrometheusCollector implements MetricsCollector
var _ MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(namespace string, reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &PrometheusCollector{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of hybrid searches",
			},
			[]string{"status"},
		),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Hybrid search duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		searchHits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_hits",
			Help:      "Number of hits returned per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		windowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_total",
			Help:      "Total number of scored windows",
		}),
		matchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_matches_total",
			Help:      "Total number of matching rows found in windows",
		}),
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "segment_loads_total",
				Help:      "Total number of segment loads",
			},
			[]string{"status"},
		),
		loadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_loaded_bytes_total",
			Help:      "Total bytes of loaded segments",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segment_load_duration_seconds",
			Help:      "Segment load duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		deletesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deletes_total",
				Help:      "Total number of deletes",
			},
			[]string{"status"},
		),
	}

	for _, c := range []prometheus.Collector{
		p.searchesTotal, p.searchDuration, p.searchHits,
		p.windowsTotal, p.matchesTotal,
		p.loadsTotal, p.loadedBytes, p.loadDuration,
		p.deletesTotal,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordSearch implements MetricsCollector.
func (p *PrometheusCollector) RecordSearch(_, hits int, duration time.Duration, err error) {
	p.searchesTotal.WithLabelValues(status(err)).Inc()
	p.searchDuration.Observe(duration.Seconds())
	if err == nil {
		p.searchHits.Observe(float64(hits))
	}
}

// RecordScan implements MetricsCollector.
func (p *PrometheusCollector) RecordScan(windows, matches int) {
	p.windowsTotal.Add(float64(windows))
	p.matchesTotal.Add(float64(matches))
}

// RecordSegmentLoad implements MetricsCollector.
func (p *PrometheusCollector) RecordSegmentLoad(bytes int64, duration time.Duration, err error) {
	p.loadsTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		p.loadedBytes.Add(float64(bytes))
		p.loadDuration.Observe(duration.Seconds())
	}
}

// RecordDelete implements MetricsCollector.
func (p *PrometheusCollector) RecordDelete(err error) {
	p.deletesTotal.WithLabelValues(status(err)).Inc()
}
