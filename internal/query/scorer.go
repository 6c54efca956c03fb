package query

import "math"

// NoMoreDocs is returned by an exhausted scorer.
const NoMoreDocs = math.MaxInt32

// Scorer iterates over matching rows of a segment in ascending order.
type Scorer interface {
	// DocID returns the current row, -1 before the first NextDoc/Advance,
	// or NoMoreDocs once exhausted.
	DocID() int
	// NextDoc advances to the next matching row and returns it.
	NextDoc() int
	// Advance moves to the first matching row >= target and returns it.
	// Calling Advance with target <= DocID() is a no-op.
	Advance(target int) int
	// Score returns the score of the current row.
	Score() float32
	// Cost returns an upper bound on the number of matching rows.
	Cost() int64
}

// emptyScorer matches nothing.
type emptyScorer struct {
	doc int
}

// Empty returns a scorer that matches no rows.
func Empty() Scorer {
	return &emptyScorer{doc: -1}
}

func (s *emptyScorer) DocID() int { return s.doc }

func (s *emptyScorer) NextDoc() int {
	s.doc = NoMoreDocs
	return s.doc
}

func (s *emptyScorer) Advance(int) int {
	s.doc = NoMoreDocs
	return s.doc
}

func (s *emptyScorer) Score() float32 { return 0 }

func (s *emptyScorer) Cost() int64 { return 0 }
