package hybrid

import (
	"math"

	"github.com/hupe1980/hybridscan/internal/searcher"
)

// allDocs is the ForEach bound that accepts the whole window.
const allDocs = math.MaxInt32

// TopDocsCollector keeps the top K rows of every sub-query.
type TopDocsCollector struct {
	queues    []*searcher.TopK
	scores    *SubQueryScores
	totalHits int
}

// Ensure TopDocsCollector implements Collector
var _ Collector = (*TopDocsCollector)(nil)

// NewTopDocsCollector creates a collector for numSubQueries sub-queries
// keeping k rows each.
func NewTopDocsCollector(numSubQueries, k int) *TopDocsCollector {
	queues := make([]*searcher.TopK, numSubQueries)
	for i := range queues {
		queues[i] = searcher.NewTopK(k)
	}
	return &TopDocsCollector{queues: queues}
}

// SetScores implements Collector.
func (c *TopDocsCollector) SetScores(scores *SubQueryScores) {
	c.scores = scores
}

// Collect implements Collector.
func (c *TopDocsCollector) Collect(stream *DocIDStream) error {
	return stream.ForEach(allDocs, c.collect)
}

func (c *TopDocsCollector) collect(doc int) error {
	c.totalHits++
	for i, s := range c.scores.Scores() {
		if s == AbsentScore {
			continue
		}
		c.queues[i].Push(doc, s)
	}
	return nil
}

// TotalHits returns the number of rows that matched at least one sub-query.
func (c *TopDocsCollector) TotalHits() int {
	return c.totalHits
}

// TopDocs returns, per sub-query, the kept rows best first.
// The collector must not be used afterwards.
func (c *TopDocsCollector) TopDocs() [][]searcher.ScoredDoc {
	out := make([][]searcher.ScoredDoc, len(c.queues))
	for i, q := range c.queues {
		out[i] = q.Sorted()
	}
	return out
}

// CountCollector counts matching rows.
type CountCollector struct {
	count int
}

// Ensure CountCollector implements Collector
var _ Collector = (*CountCollector)(nil)

// NewCountCollector creates a CountCollector.
func NewCountCollector() *CountCollector {
	return &CountCollector{}
}

// SetScores implements Collector.
func (c *CountCollector) SetScores(*SubQueryScores) {}

// Collect implements Collector.
func (c *CountCollector) Collect(stream *DocIDStream) error {
	n, err := stream.Count(allDocs)
	c.count += n
	return err
}

// Count returns the number of rows counted so far.
func (c *CountCollector) Count() int {
	return c.count
}
