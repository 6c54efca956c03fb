package hybrid

import (
	"math/bits"

	"github.com/hupe1980/hybridscan/internal/bitset"
)

// blockShift converts a word index of the match bitset into the window
// position of its first bit (64 bits per word).
const blockShift = 6

// WindowScorer is the window state a DocIDStream reads from.
// All four surfaces must be consistent and repopulated before SetBase is
// called for a new window.
type WindowScorer interface {
	// MaxDoc returns the exclusive upper bound of the document space.
	MaxDoc() int
	// Matching returns the match bitset of the current window.
	Matching() *bitset.FixedBitSet
	// WindowScores returns the per-sub-query score table indexed
	// [subQuery][positionInWindow]. A nil row means the sub-query matched
	// nothing in the window.
	WindowScores() [][]float32
	// SubQueryScores returns the shared score vector.
	SubQueryScores() *SubQueryScores
}

// DocIDStream pushes the matching documents of the current window, in
// ascending order, to a callback together with their per-sub-query scores.
//
// A DocIDStream is bound to a window with SetBase and may then be consumed
// any number of times with ForEach or Count.
type DocIDStream struct {
	scorer WindowScorer
	base   int
	upTo   int
}

// NewDocIDStream creates a stream reading from scorer.
func NewDocIDStream(scorer WindowScorer) *DocIDStream {
	return &DocIDStream{scorer: scorer}
}

// SetBase binds the stream to the window starting at base and resets the
// dispatch counter.
func (s *DocIDStream) SetBase(base int) {
	s.base = base
	s.upTo = base
}

// Base returns the first document id of the bound window.
func (s *DocIDStream) Base() int {
	return s.base
}

// ForEach calls fn for every matching document whose id is below
// base + min(upTo, MaxDoc()-base), in ascending order. Before fn runs the
// shared score vector holds the document's sub-query scores; after fn
// returns the vector is reset. The first error returned by fn aborts the
// traversal and is returned unchanged.
func (s *DocIDStream) ForEach(upTo int, fn func(doc int) error) error {
	upTo = min(upTo, s.scorer.MaxDoc()-s.base)
	cutoff := s.base + upTo

	shared := s.scorer.SubQueryScores()
	sharedScores := shared.Scores()
	windowScores := s.scorer.WindowScores()
	words := s.scorer.Matching().Words()

	for idx, w := range words {
		// w is a local copy; consumed bits never reach the bitset
		for w != 0 {
			ntz := bits.TrailingZeros64(w)
			docIndexInWindow := idx<<blockShift | ntz

			for i, row := range windowScores {
				if row == nil {
					continue
				}
				sharedScores[i] = row[docIndexInWindow]
			}

			doc := s.base | docIndexInWindow
			if doc < cutoff {
				if err := fn(doc); err != nil {
					// also reset on failure so no score outlives its doc
					shared.Reset()
					return err
				}
				s.upTo++
			}

			// reset even when doc was past the cutoff
			shared.Reset()

			w &^= uint64(1) << ntz
		}
	}
	return nil
}

// Count returns the number of documents ForEach(upTo, ...) would dispatch.
// It performs the same traversal, including the score vector work.
func (s *DocIDStream) Count(upTo int) (int, error) {
	count := 0
	err := s.ForEach(upTo, func(int) error {
		count++
		return nil
	})
	return count, err
}

// MayHaveRemaining reports whether documents may remain beyond the ones
// dispatched so far. It does not inspect the bitset and may return true
// for an exhausted window.
func (s *DocIDStream) MayHaveRemaining() bool {
	return s.upTo+1 < s.scorer.MaxDoc()
}
