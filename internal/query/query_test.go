package query

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/distance"
	"github.com/hupe1980/hybridscan/internal/segment"
	"github.com/hupe1980/hybridscan/lexical/bm25"
	"github.com/hupe1980/hybridscan/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSegment(t testing.TB) *segment.Segment {
	t.Helper()
	b := segment.NewBuilder("q", nil)
	docs := []model.Document{
		{PK: 100, Fields: map[string]string{"body": "the quick brown fox"}, Tags: []string{"animal", "fast"}, Vector: []float32{1, 0}},
		{PK: 101, Fields: map[string]string{"body": "jumped over the lazy dog"}, Tags: []string{"animal"}, Vector: []float32{0, 1}},
		{PK: 102, Fields: map[string]string{"body": "quick brown dogs"}, Tags: []string{"slow"}, Vector: []float32{0.7, 0.7}},
		{PK: 103, Fields: map[string]string{"body": "fox and dog"}, Tags: []string{"animal", "fast"}},
		{PK: 104, Fields: map[string]string{"body": "nothing to see"}, Vector: []float32{-1, 0}},
	}
	for _, d := range docs {
		require.NoError(t, b.Add(d))
	}
	return b.Build()
}

type scored struct {
	doc   int
	score float32
}

func drain(s Scorer) []scored {
	var out []scored
	for doc := s.NextDoc(); doc != NoMoreDocs; doc = s.NextDoc() {
		out = append(out, scored{doc, s.Score()})
	}
	return out
}

func docsOf(in []scored) []int {
	var out []int
	for _, s := range in {
		out = append(out, s.doc)
	}
	return out
}

func TestEmpty(t *testing.T) {
	s := Empty()
	assert.Equal(t, -1, s.DocID())
	assert.Equal(t, NoMoreDocs, s.NextDoc())
	assert.Equal(t, int64(0), s.Cost())
}

func TestBitmapScorer(t *testing.T) {
	s := NewBitmapScorer(roaring.BitmapOf(1, 5, 64, 4000), 2)
	assert.Equal(t, int64(4), s.Cost())
	assert.Equal(t, -1, s.DocID())
	assert.Equal(t, 1, s.NextDoc())
	assert.Equal(t, float32(2), s.Score())
	assert.Equal(t, 64, s.Advance(6))
	assert.Equal(t, 64, s.Advance(10)) // target <= current
	assert.Equal(t, 4000, s.NextDoc())
	assert.Equal(t, NoMoreDocs, s.NextDoc())
	assert.Equal(t, NoMoreDocs, s.NextDoc())

	assert.Equal(t, NoMoreDocs, NewBitmapScorer(nil, 1).NextDoc())
}

func TestTermScorer(t *testing.T) {
	seg := testSegment(t)
	sim := bm25.Default()

	got := drain(Term(seg, "body", "quick", sim, 1))
	require.Equal(t, []int{0, 2}, docsOf(got))
	// same tf, shorter doc scores higher
	assert.Greater(t, got[1].score, got[0].score)

	assert.Empty(t, drain(Term(seg, "body", "missing", sim, 1)))
	assert.Empty(t, drain(Term(seg, "nofield", "quick", sim, 1)))
}

func TestTermScorer_AdvanceKeepsFreqsAligned(t *testing.T) {
	seg := testSegment(t)
	sim := bm25.Default()

	ref := drain(Term(seg, "body", "dog", sim, 1))
	require.Equal(t, []int{1, 3}, docsOf(ref))

	s := Term(seg, "body", "dog", sim, 1)
	assert.Equal(t, 3, s.Advance(2))
	assert.Equal(t, ref[1].score, s.Score())
	assert.Equal(t, NoMoreDocs, s.Advance(4))
}

func TestMatch_Disjunction(t *testing.T) {
	seg := testSegment(t)
	sim := bm25.Default()

	fox := drain(Term(seg, "body", "fox", sim, 1))
	dog := drain(Term(seg, "body", "dog", sim, 1))

	got := drain(Match(seg, "body", "Fox DOG fox unknown", nil, sim, 1))
	require.Equal(t, []int{0, 1, 3}, docsOf(got))

	// doc 3 contains both terms: score is the sum
	assert.InDelta(t, fox[1].score+dog[1].score, got[2].score, 1e-6)
	assert.Equal(t, fox[0].score, got[0].score)

	assert.Empty(t, drain(Match(seg, "body", "zebra", nil, sim, 1)))
}

func TestDisjunction_Advance(t *testing.T) {
	s := NewDisjunction(
		NewBitmapScorer(roaring.BitmapOf(1, 10, 20), 1),
		NewBitmapScorer(roaring.BitmapOf(5, 10, 30), 2),
	)
	assert.Equal(t, int64(6), s.Cost())
	assert.Equal(t, 10, s.Advance(6))
	assert.Equal(t, float32(3), s.Score())
	assert.Equal(t, 20, s.NextDoc())
	assert.Equal(t, float32(1), s.Score())
	assert.Equal(t, 30, s.NextDoc())
	assert.Equal(t, NoMoreDocs, s.NextDoc())
}

func TestFiltered(t *testing.T) {
	inner := NewBitmapScorer(roaring.BitmapOf(1, 2, 3, 50, 51, 100), 1)
	s := NewFiltered(inner, roaring.BitmapOf(2, 51, 99))
	assert.Equal(t, []int{2, 51}, docsOf(drain(s)))

	inner = NewBitmapScorer(roaring.BitmapOf(1, 2), 1)
	assert.Empty(t, drain(NewFiltered(inner, roaring.New())))

	inner = NewBitmapScorer(roaring.BitmapOf(1, 2), 1)
	assert.Same(t, inner, NewFiltered(inner, nil))
}

func TestTags(t *testing.T) {
	seg := testSegment(t)

	assert.Equal(t, []uint32{0, 1, 2, 3}, TagBitmap(seg, []string{"animal", "slow"}, false).ToArray())
	assert.Equal(t, []uint32{0, 3}, TagBitmap(seg, []string{"animal", "fast"}, true).ToArray())
	assert.True(t, TagBitmap(seg, []string{"animal", "nope"}, true).IsEmpty())
	assert.Equal(t, []uint32{2}, TagBitmap(seg, []string{"nope", "slow"}, false).ToArray())
	assert.True(t, TagBitmap(seg, nil, false).IsEmpty())

	got := drain(Tags(seg, []string{"fast"}, false, 1.5))
	assert.Equal(t, []scored{{0, 1.5}, {3, 1.5}}, got)

	// tag bitmaps are not mutated by combination
	assert.Equal(t, []uint32{0, 3}, seg.Tag("fast").ToArray())
}

func TestVectorScorer(t *testing.T) {
	seg := testSegment(t)

	got := drain(NewVectorScorer(seg, []float32{1, 0}, 2, distance.Cosine, nil))
	// nearest: row 0 (cos 1), row 2 (cos ~0.707); iterated in row order
	require.Equal(t, []int{0, 2}, docsOf(got))
	assert.InDelta(t, 1.0, got[0].score, 1e-6)

	// accept bitmap restricts candidates
	got = drain(NewVectorScorer(seg, []float32{1, 0}, 2, distance.Cosine, roaring.BitmapOf(1, 4)))
	assert.Equal(t, []int{1, 4}, docsOf(got))

	s := NewVectorScorer(seg, []float32{1, 0}, 10, distance.L2, nil)
	assert.Equal(t, int64(4), s.Cost())
	assert.Equal(t, 2, s.Advance(2))
	assert.Equal(t, 4, s.Advance(3))
	assert.Equal(t, NoMoreDocs, s.Advance(NoMoreDocs))
}
