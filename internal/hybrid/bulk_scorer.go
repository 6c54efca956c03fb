package hybrid

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/internal/bitset"
	"github.com/hupe1980/hybridscan/internal/query"
)

// DefaultWindowSize is the number of documents evaluated per window.
const DefaultWindowSize = 4096

// ErrInvalidWindowSize is returned for window sizes that are not a power
// of two of at least 64.
var ErrInvalidWindowSize = errors.New("window size must be a power of two >= 64")

// Collector consumes the matches of one window at a time.
type Collector interface {
	// SetScores is called once before the first window with the shared
	// score vector the collector reads during Collect.
	SetScores(scores *SubQueryScores)
	// Collect consumes the current window.
	Collect(stream *DocIDStream) error
}

// Stats reports the work done by a BulkScorer.
type Stats struct {
	Windows int
	Matches int
}

// BulkScorer evaluates the sub-query scorers of a hybrid query window by
// window and hands every window to a Collector through a DocIDStream.
// It is the WindowScorer the stream reads from.
type BulkScorer struct {
	scorers    []query.Scorer
	maxDoc     int
	windowSize int
	windowMask int
	accept     *roaring.Bitmap

	matching *bitset.FixedBitSet
	rows     [][]float32
	window   [][]float32
	shared   *SubQueryScores
	stream   *DocIDStream

	stats Stats
}

// Ensure BulkScorer implements WindowScorer
var _ WindowScorer = (*BulkScorer)(nil)

// BulkScorerOption configures a BulkScorer.
type BulkScorerOption func(*BulkScorer)

// WithWindowSize sets the window size.
func WithWindowSize(size int) BulkScorerOption {
	return func(b *BulkScorer) {
		b.windowSize = size
	}
}

// WithAcceptDocs restricts scoring to the rows of live (e.g. non-deleted
// documents). A nil bitmap accepts every row.
func WithAcceptDocs(live *roaring.Bitmap) BulkScorerOption {
	return func(b *BulkScorer) {
		b.accept = live
	}
}

// NewBulkScorer creates a BulkScorer over scorers for a document space of
// maxDoc rows. A nil scorer stands for a sub-query that cannot match.
func NewBulkScorer(scorers []query.Scorer, maxDoc int, opts ...BulkScorerOption) (*BulkScorer, error) {
	b := &BulkScorer{
		scorers:    scorers,
		maxDoc:     maxDoc,
		windowSize: DefaultWindowSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.windowSize < 64 || b.windowSize&(b.windowSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindowSize, b.windowSize)
	}
	b.windowMask = b.windowSize - 1

	b.matching = bitset.NewFixed(b.windowSize)
	b.rows = make([][]float32, len(scorers))
	for i, s := range scorers {
		if s != nil {
			b.rows[i] = make([]float32, b.windowSize)
		}
	}
	b.window = make([][]float32, len(scorers))
	b.shared = NewSubQueryScores(len(scorers))
	b.stream = NewDocIDStream(b)
	return b, nil
}

// MaxDoc implements WindowScorer.
func (b *BulkScorer) MaxDoc() int { return b.maxDoc }

// Matching implements WindowScorer.
func (b *BulkScorer) Matching() *bitset.FixedBitSet { return b.matching }

// WindowScores implements WindowScorer.
func (b *BulkScorer) WindowScores() [][]float32 { return b.window }

// SubQueryScores implements WindowScorer.
func (b *BulkScorer) SubQueryScores() *SubQueryScores { return b.shared }

// Stats returns the work done so far.
func (b *BulkScorer) Stats() Stats { return b.stats }

// Score evaluates rows in [minDoc, maxDoc) and passes every window with at
// least one match to c. Cancellation is checked between windows.
func (b *BulkScorer) Score(ctx context.Context, c Collector, minDoc, maxDoc int) error {
	maxDoc = min(maxDoc, b.maxDoc)
	c.SetScores(b.shared)

	for _, s := range b.scorers {
		if s != nil && s.DocID() < minDoc {
			s.Advance(minDoc)
		}
	}

	for {
		top := b.nextDoc()
		if top >= maxDoc {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.scoreWindow(c, top, minDoc, maxDoc); err != nil {
			return err
		}
	}
}

// nextDoc returns the smallest row any scorer is positioned on.
func (b *BulkScorer) nextDoc() int {
	top := query.NoMoreDocs
	for _, s := range b.scorers {
		if s != nil {
			top = min(top, s.DocID())
		}
	}
	return top
}

func (b *BulkScorer) scoreWindow(c Collector, top, minDoc, maxDoc int) error {
	base := top &^ b.windowMask
	windowMin := max(minDoc, base)
	windowMax := min(maxDoc, base+b.windowSize)

	for i, s := range b.scorers {
		b.window[i] = nil
		if s == nil {
			continue
		}

		doc := s.DocID()
		if doc < windowMin {
			doc = s.Advance(windowMin)
		}
		row := b.rows[i]
		present := false
		for ; doc < windowMax; doc = s.NextDoc() {
			if b.accept != nil && !b.accept.Contains(uint32(doc)) {
				continue
			}
			pos := doc - base
			b.matching.Set(pos)
			row[pos] = s.Score()
			present = true
		}
		if present {
			b.window[i] = row
		}
	}

	b.stats.Windows++
	b.stats.Matches += b.matching.Cardinality()

	b.stream.SetBase(base)
	err := c.Collect(b.stream)
	b.clearWindow()
	return err
}

// clearWindow zeroes the score entries written for the current window so
// the next window starts from an empty table.
func (b *BulkScorer) clearWindow() {
	for pos := b.matching.NextSetBit(0); pos >= 0; pos = b.matching.NextSetBit(pos + 1) {
		for _, row := range b.window {
			if row != nil {
				row[pos] = 0
			}
		}
	}
	b.matching.ClearAll()
	for i := range b.window {
		b.window[i] = nil
	}
}
