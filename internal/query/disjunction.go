package query

// DisjunctionScorer matches rows matched by any child and scores them with
// the sum of the scores of the children positioned on the row.
//
// Children are scanned linearly; match queries have few terms, so a heap
// does not pay off.
type DisjunctionScorer struct {
	children []Scorer
	doc      int
	cost     int64
}

// NewDisjunction combines children. With a single child the child itself
// is returned.
func NewDisjunction(children ...Scorer) Scorer {
	switch len(children) {
	case 0:
		return Empty()
	case 1:
		return children[0]
	}
	var cost int64
	for _, c := range children {
		cost += c.Cost()
	}
	return &DisjunctionScorer{children: children, doc: -1, cost: cost}
}

// DocID implements Scorer.
func (s *DisjunctionScorer) DocID() int { return s.doc }

// NextDoc implements Scorer.
func (s *DisjunctionScorer) NextDoc() int {
	if s.doc == NoMoreDocs {
		return s.doc
	}
	for _, c := range s.children {
		if c.DocID() == s.doc {
			c.NextDoc()
		}
	}
	return s.updateDoc()
}

// Advance implements Scorer.
func (s *DisjunctionScorer) Advance(target int) int {
	if target <= s.doc {
		return s.doc
	}
	for _, c := range s.children {
		if c.DocID() < target {
			c.Advance(target)
		}
	}
	return s.updateDoc()
}

func (s *DisjunctionScorer) updateDoc() int {
	minDoc := NoMoreDocs
	for _, c := range s.children {
		if d := c.DocID(); d < minDoc {
			minDoc = d
		}
	}
	s.doc = minDoc
	return s.doc
}

// Score implements Scorer.
func (s *DisjunctionScorer) Score() float32 {
	var sum float32
	for _, c := range s.children {
		if c.DocID() == s.doc {
			sum += c.Score()
		}
	}
	return sum
}

// Cost implements Scorer.
func (s *DisjunctionScorer) Cost() int64 { return s.cost }
