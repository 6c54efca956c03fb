package hybridscan

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/distance"
	"github.com/hupe1980/hybridscan/fusion"
	"github.com/hupe1980/hybridscan/internal/query"
	"github.com/hupe1980/hybridscan/internal/segment"
)

// SubQuery is one scored clause of a HybridQuery.
// Implementations are Match, Term, Tags and KNN.
type SubQuery interface {
	validate() error
	scorer(seg *segment.Segment, o *options, accept *roaring.Bitmap) (query.Scorer, error)
}

// Match scores the rows whose field contains any analyzed token of Text
// with the sum of the BM25 scores of the matching tokens.
type Match struct {
	Field string
	Text  string
	// Boost multiplies the BM25 score. Zero means 1.
	Boost float64
}

func (m Match) validate() error {
	if m.Field == "" {
		return fmt.Errorf("%w: match without field", ErrInvalidSubQuery)
	}
	if m.Boost < 0 {
		return fmt.Errorf("%w: negative boost %v", ErrInvalidSubQuery, m.Boost)
	}
	return nil
}

func (m Match) scorer(seg *segment.Segment, o *options, _ *roaring.Bitmap) (query.Scorer, error) {
	return query.Match(seg, m.Field, m.Text, o.analyzer, o.similarity, boost(m.Boost)), nil
}

// Term scores the rows whose field contains the exact, unanalyzed term.
type Term struct {
	Field string
	Term  string
	Boost float64
}

func (t Term) validate() error {
	if t.Field == "" || t.Term == "" {
		return fmt.Errorf("%w: term needs field and term", ErrInvalidSubQuery)
	}
	if t.Boost < 0 {
		return fmt.Errorf("%w: negative boost %v", ErrInvalidSubQuery, t.Boost)
	}
	return nil
}

func (t Term) scorer(seg *segment.Segment, o *options, _ *roaring.Bitmap) (query.Scorer, error) {
	return query.Term(seg, t.Field, t.Term, o.similarity, boost(t.Boost)), nil
}

// Tags gives a constant score to rows carrying any (or, with MatchAll,
// every) of the tags.
type Tags struct {
	Tags     []string
	MatchAll bool
	// Score is the constant score of a match. Zero means 1.
	Score float32
}

func (t Tags) validate() error {
	if len(t.Tags) == 0 {
		return fmt.Errorf("%w: tags sub-query without tags", ErrInvalidSubQuery)
	}
	if t.Score < 0 {
		return fmt.Errorf("%w: negative tag score %v", ErrInvalidSubQuery, t.Score)
	}
	return nil
}

func (t Tags) scorer(seg *segment.Segment, _ *options, _ *roaring.Bitmap) (query.Scorer, error) {
	score := t.Score
	if score == 0 {
		score = 1
	}
	return query.Tags(seg, t.Tags, t.MatchAll, score), nil
}

// KNN scores the exact K nearest vectors of every segment.
type KNN struct {
	Vector []float32
	// K is the number of neighbours per segment. Zero means the K of the
	// HybridQuery.
	K      int
	Metric distance.Metric
}

func (k KNN) validate() error {
	if len(k.Vector) == 0 {
		return fmt.Errorf("%w: knn without vector", ErrInvalidSubQuery)
	}
	if k.K < 0 {
		return fmt.Errorf("%w: knn k %d", ErrInvalidK, k.K)
	}
	return nil
}

func (k KNN) scorer(seg *segment.Segment, _ *options, accept *roaring.Bitmap) (query.Scorer, error) {
	dim := seg.Dimension()
	if dim == 0 {
		return query.Empty(), nil
	}
	if dim != len(k.Vector) {
		return nil, &ErrDimensionMismatch{Expected: dim, Actual: len(k.Vector)}
	}
	return query.NewVectorScorer(seg, k.Vector, k.K, k.Metric, accept), nil
}

func boost(b float64) float64 {
	if b == 0 {
		return 1
	}
	return b
}

// Filter restricts every sub-query to rows carrying the tags.
type Filter struct {
	Tags []string
	// MatchAll requires every tag instead of any.
	MatchAll bool
}

// HybridQuery combines up to MaxSubQueries sub-queries into one ranked
// result list.
type HybridQuery struct {
	SubQueries []SubQuery
	// K is the number of hits returned and the number of candidates kept
	// per sub-query.
	K int
	// Filter, if set, applies to every sub-query.
	Filter *Filter
	// Fusion overrides the searcher's default fusion.
	Fusion *fusion.Options
}

func (q *HybridQuery) validate(defaultFusion fusion.Options) (fusion.Options, error) {
	if len(q.SubQueries) == 0 {
		return fusion.Options{}, ErrNoSubQueries
	}
	if len(q.SubQueries) > MaxSubQueries {
		return fusion.Options{}, fmt.Errorf("%w: got %d", ErrTooManySubQueries, len(q.SubQueries))
	}
	if q.K <= 0 {
		return fusion.Options{}, fmt.Errorf("%w: got %d", ErrInvalidK, q.K)
	}
	for i, sq := range q.SubQueries {
		if sq == nil {
			return fusion.Options{}, fmt.Errorf("%w: sub-query %d is nil", ErrInvalidSubQuery, i)
		}
		if err := sq.validate(); err != nil {
			return fusion.Options{}, fmt.Errorf("sub-query %d: %w", i, err)
		}
	}

	if q.Filter != nil && len(q.Filter.Tags) == 0 {
		return fusion.Options{}, fmt.Errorf("%w: filter without tags", ErrInvalidSubQuery)
	}

	opts := defaultFusion
	if q.Fusion != nil {
		opts = *q.Fusion
	}
	if err := opts.Validate(len(q.SubQueries)); err != nil {
		return fusion.Options{}, translateError(err)
	}
	return opts, nil
}

// withDefaults resolves per-sub-query defaults that depend on the query.
func (q *HybridQuery) withDefaults() []SubQuery {
	out := make([]SubQuery, len(q.SubQueries))
	for i, sq := range q.SubQueries {
		if knn, ok := sq.(KNN); ok && knn.K == 0 {
			knn.K = q.K
			sq = knn
		}
		out[i] = sq
	}
	return out
}
