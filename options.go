package hybridscan

import (
	"log/slog"

	"github.com/hupe1980/hybridscan/codec"
	"github.com/hupe1980/hybridscan/fusion"
	"github.com/hupe1980/hybridscan/internal/hybrid"
	"github.com/hupe1980/hybridscan/internal/segment"
	"github.com/hupe1980/hybridscan/lexical"
	"github.com/hupe1980/hybridscan/lexical/bm25"
	"github.com/hupe1980/hybridscan/resource"
)

// Compression selects the block compression of written segments.
type Compression = segment.Compression

const (
	CompressionNone = segment.CompressionNone
	CompressionLZ4  = segment.CompressionLZ4
	CompressionZSTD = segment.CompressionZSTD
)

// DefaultWindowSize is the number of rows scored per window.
const DefaultWindowSize = hybrid.DefaultWindowSize

type options struct {
	codec            codec.Codec
	compression      Compression
	metricsCollector MetricsCollector
	logger           *Logger
	resource         *resource.Controller
	concurrency      int
	windowSize       int
	analyzer         lexical.Analyzer
	similarity       bm25.Similarity
	fusion           fusion.Options
	segmentPrefix    string
}

// Option configures Open, Write and the Searcher.
type Option func(*options)

// WithCodec configures the codec used for encoding written segments.
// Segments record their codec, so reading never needs this option.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the block compression of written segments.
// The default is CompressionZSTD.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hybridscan.BasicMetricsCollector{}
//	s, _ := hybridscan.Open(ctx, store, hybridscan.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hybridscan.NewJSONLogger(slog.LevelInfo)
//	s, _ := hybridscan.Open(ctx, store, hybridscan.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceConfig bounds memory, search concurrency and segment IO.
func WithResourceConfig(cfg resource.Config) Option {
	return func(o *options) {
		o.resource = resource.NewController(cfg)
	}
}

// WithResourceController shares a resource controller between searchers.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resource = rc
	}
}

// WithConcurrency bounds the number of segments a single search scores in
// parallel. Values < 1 mean one goroutine per segment.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithWindowSize sets the number of rows evaluated per window. It must be
// a power of two of at least 64. The default is 4096.
func WithWindowSize(size int) Option {
	return func(o *options) {
		o.windowSize = size
	}
}

// WithAnalyzer sets the text analyzer used for indexing and Match queries.
func WithAnalyzer(a lexical.Analyzer) Option {
	return func(o *options) {
		if a == nil {
			a = lexical.StandardAnalyzer{}
		}
		o.analyzer = a
	}
}

// WithSimilarity sets the BM25 parameters.
func WithSimilarity(sim bm25.Similarity) Option {
	return func(o *options) {
		o.similarity = sim
	}
}

// WithFusion sets the default fusion of queries that do not specify one.
func WithFusion(f fusion.Options) Option {
	return func(o *options) {
		o.fusion = f
	}
}

// WithSegmentPrefix sets the blob prefix segments are stored under.
// The default is "segments/".
func WithSegmentPrefix(prefix string) Option {
	return func(o *options) {
		o.segmentPrefix = prefix
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      CompressionZSTD,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		windowSize:       DefaultWindowSize,
		analyzer:         lexical.StandardAnalyzer{},
		similarity:       bm25.Default(),
		fusion:           fusion.DefaultOptions(),
		segmentPrefix:    "segments/",
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
