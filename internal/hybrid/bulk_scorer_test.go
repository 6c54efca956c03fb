package hybrid

import (
	"context"
	"errors"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/internal/query"
	"github.com/hupe1980/hybridscan/internal/searcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCollector records the score vector seen for every row.
type recordingCollector struct {
	scores  *SubQueryScores
	vectors map[int][]float32
	err     error
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{vectors: make(map[int][]float32)}
}

func (c *recordingCollector) SetScores(scores *SubQueryScores) { c.scores = scores }

func (c *recordingCollector) Collect(stream *DocIDStream) error {
	return stream.ForEach(allDocs, func(doc int) error {
		c.vectors[doc] = append([]float32(nil), c.scores.Scores()...)
		return c.err
	})
}

func bitmapScorers(scores []float32, rows ...[]uint32) []query.Scorer {
	out := make([]query.Scorer, len(rows))
	for i, r := range rows {
		out[i] = query.NewBitmapScorer(roaring.BitmapOf(r...), scores[i])
	}
	return out
}

func TestBulkScorerTopDocs(t *testing.T) {
	scorers := bitmapScorers([]float32{2, 3}, []uint32{1, 5, 4100}, []uint32{5, 9000})
	bs, err := NewBulkScorer(scorers, 10000)
	require.NoError(t, err)

	c := NewTopDocsCollector(2, 10)
	require.NoError(t, bs.Score(context.Background(), c, 0, 10000))

	assert.Equal(t, 4, c.TotalHits())
	top := c.TopDocs()
	assert.Equal(t, []searcher.ScoredDoc{{Doc: 1, Score: 2}, {Doc: 5, Score: 2}, {Doc: 4100, Score: 2}}, top[0])
	assert.Equal(t, []searcher.ScoredDoc{{Doc: 5, Score: 3}, {Doc: 9000, Score: 3}}, top[1])

	assert.Equal(t, Stats{Windows: 3, Matches: 4}, bs.Stats())
}

func TestBulkScorerScoreVectors(t *testing.T) {
	scorers := bitmapScorers([]float32{2, 3}, []uint32{1, 5, 4100}, []uint32{5, 9000})
	bs, err := NewBulkScorer(scorers, 10000)
	require.NoError(t, err)

	c := newRecordingCollector()
	require.NoError(t, bs.Score(context.Background(), c, 0, 10000))

	assert.Equal(t, map[int][]float32{
		1:    {2, 0},
		5:    {2, 3},
		4100: {2, 0},
		9000: {0, 3},
	}, c.vectors)
	assert.Equal(t, []float32{0, 0}, c.scores.Scores())
}

func TestBulkScorerClearsRowsBetweenWindows(t *testing.T) {
	// Sub-query 0 matches position 5 in the first window and position 1
	// in the second; sub-query 1 matches position 5 in the second.
	scorers := bitmapScorers([]float32{2, 3}, []uint32{5, 65}, []uint32{69})
	bs, err := NewBulkScorer(scorers, 128, WithWindowSize(64))
	require.NoError(t, err)

	c := newRecordingCollector()
	require.NoError(t, bs.Score(context.Background(), c, 0, 128))

	assert.Equal(t, map[int][]float32{
		5:  {2, 0},
		65: {2, 0},
		69: {0, 3},
	}, c.vectors)
}

func TestBulkScorerAcceptDocs(t *testing.T) {
	scorers := bitmapScorers([]float32{2, 3}, []uint32{1, 5, 4100}, []uint32{5, 9000})
	live := roaring.New()
	live.AddRange(0, 10000)
	live.Remove(5)

	bs, err := NewBulkScorer(scorers, 10000, WithAcceptDocs(live))
	require.NoError(t, err)

	c := NewTopDocsCollector(2, 10)
	require.NoError(t, bs.Score(context.Background(), c, 0, 10000))

	assert.Equal(t, 3, c.TotalHits())
	top := c.TopDocs()
	assert.Equal(t, []searcher.ScoredDoc{{Doc: 1, Score: 2}, {Doc: 4100, Score: 2}}, top[0])
	assert.Equal(t, []searcher.ScoredDoc{{Doc: 9000, Score: 3}}, top[1])
}

func TestBulkScorerRange(t *testing.T) {
	scorers := bitmapScorers([]float32{2, 3}, []uint32{1, 5, 4100}, []uint32{5, 9000})
	bs, err := NewBulkScorer(scorers, 10000)
	require.NoError(t, err)

	c := newRecordingCollector()
	require.NoError(t, bs.Score(context.Background(), c, 2, 5000))

	assert.Len(t, c.vectors, 2)
	assert.Contains(t, c.vectors, 5)
	assert.Contains(t, c.vectors, 4100)
}

func TestBulkScorerMaxDocClamp(t *testing.T) {
	// Rows at or beyond the segment size are never reported.
	scorers := bitmapScorers([]float32{1}, []uint32{3, 99, 100, 150})
	bs, err := NewBulkScorer(scorers, 100)
	require.NoError(t, err)

	c := NewCountCollector()
	require.NoError(t, bs.Score(context.Background(), c, 0, 1000))
	assert.Equal(t, 2, c.Count())
}

func TestBulkScorerNilAndEmptyScorers(t *testing.T) {
	scorers := []query.Scorer{nil, query.NewBitmapScorer(roaring.BitmapOf(7), 1), query.Empty()}
	bs, err := NewBulkScorer(scorers, 10)
	require.NoError(t, err)

	c := newRecordingCollector()
	require.NoError(t, bs.Score(context.Background(), c, 0, 10))
	assert.Equal(t, map[int][]float32{7: {0, 1, 0}}, c.vectors)
}

func TestBulkScorerNoMatches(t *testing.T) {
	bs, err := NewBulkScorer([]query.Scorer{query.Empty()}, 10)
	require.NoError(t, err)

	c := NewCountCollector()
	require.NoError(t, bs.Score(context.Background(), c, 0, 10))
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, Stats{}, bs.Stats())
}

func TestBulkScorerCancelled(t *testing.T) {
	scorers := bitmapScorers([]float32{1}, []uint32{1, 2, 3})
	bs, err := NewBulkScorer(scorers, 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCountCollector()
	err = bs.Score(ctx, c, 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, c.Count())
}

func TestBulkScorerCollectorError(t *testing.T) {
	scorers := bitmapScorers([]float32{1}, []uint32{1, 2, 3})
	bs, err := NewBulkScorer(scorers, 10)
	require.NoError(t, err)

	errStop := errors.New("stop")
	c := newRecordingCollector()
	c.err = errStop

	err = bs.Score(context.Background(), c, 0, 10)
	assert.ErrorIs(t, err, errStop)
	assert.Len(t, c.vectors, 1)
	assert.Equal(t, 0, bs.Matching().Cardinality())
}

func TestBulkScorerInvalidWindowSize(t *testing.T) {
	for _, size := range []int{0, 32, 100, 4095} {
		_, err := NewBulkScorer(nil, 10, WithWindowSize(size))
		assert.ErrorIs(t, err, ErrInvalidWindowSize, "size %d", size)
	}
}

func TestCountCollector(t *testing.T) {
	scorers := bitmapScorers([]float32{1, 1}, []uint32{0, 4095, 4096}, []uint32{4095, 8000})
	bs, err := NewBulkScorer(scorers, 8192)
	require.NoError(t, err)

	c := NewCountCollector()
	require.NoError(t, bs.Score(context.Background(), c, 0, 8192))
	assert.Equal(t, 4, c.Count())
}

func TestTopDocsCollectorKeepsBest(t *testing.T) {
	w := newStaticWindow(64, 64, 2)
	w.set(0, 1, 0.5)
	w.set(0, 2, 0.9)
	w.set(0, 3, 0.1)
	w.set(1, 3, 0.7)

	c := NewTopDocsCollector(2, 2)
	c.SetScores(w.SubQueryScores())
	s := NewDocIDStream(w)
	s.SetBase(0)
	require.NoError(t, c.Collect(s))

	assert.Equal(t, 3, c.TotalHits())
	top := c.TopDocs()
	assert.Equal(t, []searcher.ScoredDoc{{Doc: 2, Score: 0.9}, {Doc: 1, Score: 0.5}}, top[0])
	assert.Equal(t, []searcher.ScoredDoc{{Doc: 3, Score: 0.7}}, top[1])
}

func BenchmarkBulkScorer(b *testing.B) {
	a := roaring.New()
	c := roaring.New()
	for i := uint32(0); i < 100_000; i += 3 {
		a.Add(i)
	}
	for i := uint32(0); i < 100_000; i += 7 {
		c.Add(i)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scorers := []query.Scorer{query.NewBitmapScorer(a, 1), query.NewBitmapScorer(c, 2)}
		bs, err := NewBulkScorer(scorers, 100_000)
		if err != nil {
			b.Fatal(err)
		}
		if err := bs.Score(context.Background(), NewTopDocsCollector(2, 10), 0, 100_000); err != nil {
			b.Fatal(err)
		}
	}
}
