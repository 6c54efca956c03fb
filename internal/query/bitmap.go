package query

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// BitmapScorer scores every row of a roaring bitmap with a constant.
type BitmapScorer struct {
	it    roaring.IntPeekable
	cost  int64
	score float32
	doc   int
}

// NewBitmapScorer creates a constant-score scorer over bm.
// A nil bitmap matches nothing.
func NewBitmapScorer(bm *roaring.Bitmap, score float32) *BitmapScorer {
	if bm == nil {
		bm = roaring.New()
	}
	return &BitmapScorer{
		it:    bm.Iterator(),
		cost:  int64(bm.GetCardinality()),
		score: score,
		doc:   -1,
	}
}

// DocID implements Scorer.
func (s *BitmapScorer) DocID() int { return s.doc }

// NextDoc implements Scorer.
func (s *BitmapScorer) NextDoc() int {
	if s.doc == NoMoreDocs {
		return s.doc
	}
	if !s.it.HasNext() {
		s.doc = NoMoreDocs
		return s.doc
	}
	s.doc = int(s.it.Next())
	return s.doc
}

// Advance implements Scorer.
func (s *BitmapScorer) Advance(target int) int {
	if target <= s.doc {
		return s.doc
	}
	if target >= NoMoreDocs {
		s.doc = NoMoreDocs
		return s.doc
	}
	s.it.AdvanceIfNeeded(uint32(target))
	return s.NextDoc()
}

// Score implements Scorer.
func (s *BitmapScorer) Score() float32 { return s.score }

// Cost implements Scorer.
func (s *BitmapScorer) Cost() int64 { return s.cost }
