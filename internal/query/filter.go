package query

import "github.com/RoaringBitmap/roaring/v2"

// FilteredScorer restricts a scorer to the rows of a bitmap.
type FilteredScorer struct {
	inner  Scorer
	accept *roaring.Bitmap
}

// NewFiltered wraps inner so only rows contained in accept match.
// A nil accept bitmap returns inner unchanged.
func NewFiltered(inner Scorer, accept *roaring.Bitmap) Scorer {
	if accept == nil {
		return inner
	}
	return &FilteredScorer{inner: inner, accept: accept}
}

// DocID implements Scorer.
func (s *FilteredScorer) DocID() int { return s.inner.DocID() }

// NextDoc implements Scorer.
func (s *FilteredScorer) NextDoc() int {
	return s.skip(s.inner.NextDoc())
}

// Advance implements Scorer.
func (s *FilteredScorer) Advance(target int) int {
	return s.skip(s.inner.Advance(target))
}

func (s *FilteredScorer) skip(doc int) int {
	for doc != NoMoreDocs && !s.accept.Contains(uint32(doc)) {
		// jump to the next accepted row instead of stepping one by one
		it := s.accept.Iterator()
		it.AdvanceIfNeeded(uint32(doc))
		if !it.HasNext() {
			return s.inner.Advance(NoMoreDocs)
		}
		doc = s.inner.Advance(int(it.Next()))
	}
	return doc
}

// Score implements Scorer.
func (s *FilteredScorer) Score() float32 { return s.inner.Score() }

// Cost implements Scorer.
func (s *FilteredScorer) Cost() int64 {
	return min(s.inner.Cost(), int64(s.accept.GetCardinality()))
}
