package query

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/distance"
	"github.com/hupe1980/hybridscan/internal/searcher"
	"github.com/hupe1980/hybridscan/internal/segment"
	"github.com/hupe1980/hybridscan/model"
)

// VectorScorer iterates over the exact k nearest rows of a segment in row
// order. Similarity is computed eagerly when the scorer is created.
type VectorScorer struct {
	hits []searcher.ScoredDoc
	pos  int
	doc  int
}

// NewVectorScorer scores every row of seg that has a vector and is
// contained in accept (nil accepts all), and keeps the k best.
// The caller must ensure len(q) == seg.Dimension().
func NewVectorScorer(seg *segment.Segment, q []float32, k int, metric distance.Metric, accept *roaring.Bitmap) *VectorScorer {
	top := searcher.NewTopK(k)

	candidates := seg.VectorRows()
	if accept != nil {
		candidates = roaring.And(candidates, accept)
	}
	it := candidates.Iterator()
	for it.HasNext() {
		row := it.Next()
		top.Push(int(row), metric.Score(q, seg.Vector(model.RowID(row))))
	}

	return &VectorScorer{hits: top.DocOrder(), pos: -1, doc: -1}
}

// DocID implements Scorer.
func (s *VectorScorer) DocID() int { return s.doc }

// NextDoc implements Scorer.
func (s *VectorScorer) NextDoc() int {
	if s.doc == NoMoreDocs {
		return s.doc
	}
	s.pos++
	if s.pos >= len(s.hits) {
		s.doc = NoMoreDocs
		return s.doc
	}
	s.doc = s.hits[s.pos].Doc
	return s.doc
}

// Advance implements Scorer.
func (s *VectorScorer) Advance(target int) int {
	for s.doc < target {
		s.NextDoc()
	}
	return s.doc
}

// Score implements Scorer.
func (s *VectorScorer) Score() float32 { return s.hits[s.pos].Score }

// Cost implements Scorer.
func (s *VectorScorer) Cost() int64 { return int64(len(s.hits)) }
