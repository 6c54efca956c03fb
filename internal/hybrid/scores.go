package hybrid

// AbsentScore is the value a slot of SubQueryScores holds when the
// sub-query did not match the current document.
const AbsentScore float32 = 0

// SubQueryScores is the shared score vector handed to collectors.
// It holds one slot per sub-query and is reused for every document.
type SubQueryScores struct {
	scores []float32
}

// NewSubQueryScores creates a score vector with n slots set to AbsentScore.
func NewSubQueryScores(n int) *SubQueryScores {
	return &SubQueryScores{scores: make([]float32, n)}
}

// Scores returns the score slots. The slice is borrowed: it is overwritten
// for the next document and must be copied if retained.
func (s *SubQueryScores) Scores() []float32 {
	return s.scores
}

// Len returns the number of sub-queries.
func (s *SubQueryScores) Len() int {
	return len(s.scores)
}

// Reset sets every slot to AbsentScore.
func (s *SubQueryScores) Reset() {
	for i := range s.scores {
		s.scores[i] = AbsentScore
	}
}
