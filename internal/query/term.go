package query

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/internal/segment"
	"github.com/hupe1980/hybridscan/lexical/bm25"
)

// TermScorer iterates over the posting list of one term and scores rows
// with BM25.
type TermScorer struct {
	docs    *roaring.Bitmap
	it      roaring.IntPeekable
	freqs   []uint32
	lengths []uint32
	sim     bm25.TermScorer

	doc     int
	ordinal int
}

// NewTermScorer creates a scorer for posting p of field f.
func NewTermScorer(f *segment.Field, p *segment.Posting, sim bm25.Similarity, boost float64) *TermScorer {
	return &TermScorer{
		docs:    p.Docs,
		it:      p.Docs.Iterator(),
		freqs:   p.Freqs,
		lengths: f.Lengths,
		sim:     sim.Scorer(boost, len(p.Freqs), f.DocCount, f.AvgLength()),
		doc:     -1,
		ordinal: -1,
	}
}

// DocID implements Scorer.
func (s *TermScorer) DocID() int { return s.doc }

// NextDoc implements Scorer.
func (s *TermScorer) NextDoc() int {
	if s.doc == NoMoreDocs {
		return s.doc
	}
	if !s.it.HasNext() {
		s.doc = NoMoreDocs
		return s.doc
	}
	s.doc = int(s.it.Next())
	s.ordinal++
	return s.doc
}

// Advance implements Scorer.
func (s *TermScorer) Advance(target int) int {
	if target <= s.doc {
		return s.doc
	}
	if target >= NoMoreDocs {
		s.doc = NoMoreDocs
		return s.doc
	}
	s.it.AdvanceIfNeeded(uint32(target))
	if !s.it.HasNext() {
		s.doc = NoMoreDocs
		return s.doc
	}
	s.doc = int(s.it.Next())
	// Rank counts members <= doc
	s.ordinal = int(s.docs.Rank(uint32(s.doc))) - 1
	return s.doc
}

// Score implements Scorer.
func (s *TermScorer) Score() float32 {
	return s.sim.Score(s.freqs[s.ordinal], s.lengths[s.doc])
}

// Cost implements Scorer.
func (s *TermScorer) Cost() int64 { return int64(len(s.freqs)) }
