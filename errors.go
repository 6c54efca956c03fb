package hybridscan

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hybridscan/fusion"
	"github.com/hupe1980/hybridscan/internal/hybrid"
	"github.com/hupe1980/hybridscan/internal/segment"
)

// MaxSubQueries is the maximum number of sub-queries of a hybrid query.
const MaxSubQueries = 5

var (
	// ErrNotFound is returned when a primary key does not exist or is deleted.
	ErrNotFound = errors.New("not found")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNoSubQueries is returned for a hybrid query without sub-queries.
	ErrNoSubQueries = errors.New("hybrid query needs at least one sub-query")

	// ErrTooManySubQueries is returned when a query exceeds MaxSubQueries.
	ErrTooManySubQueries = fmt.Errorf("hybrid query supports at most %d sub-queries", MaxSubQueries)

	// ErrInvalidWeights is returned for fusion weights that do not fit the query.
	ErrInvalidWeights = errors.New("invalid sub-query weights")

	// ErrInvalidSubQuery is returned for a malformed sub-query.
	ErrInvalidSubQuery = errors.New("invalid sub-query")

	// ErrDuplicatePK is returned when a primary key is written twice.
	ErrDuplicatePK = errors.New("duplicate primary key")

	// ErrCorruptSegment is returned when a stored segment cannot be decoded.
	ErrCorruptSegment = errors.New("corrupt segment")

	// ErrInvalidWindowSize is returned for a window size that is not a
	// power of two of at least 64.
	ErrInvalidWindowSize = errors.New("window size must be a power of two >= 64")

	// ErrInvalidSegmentName is returned for empty segment names or names
	// containing a path separator.
	ErrInvalidSegmentName = errors.New("invalid segment name")

	// ErrSegmentExists is returned when adding a segment under a name that
	// is already loaded.
	ErrSegmentExists = errors.New("segment already exists")

	// ErrClosed is returned when using a closed Searcher.
	ErrClosed = errors.New("searcher is closed")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// translateError maps errors of internal packages onto the public ones.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, segment.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, segment.ErrDuplicatePK) {
		return fmt.Errorf("%w: %w", ErrDuplicatePK, err)
	}
	if errors.Is(err, segment.ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrCorruptSegment, err)
	}
	if errors.Is(err, hybrid.ErrInvalidWindowSize) {
		return fmt.Errorf("%w: %w", ErrInvalidWindowSize, err)
	}
	if errors.Is(err, fusion.ErrInvalidWeights) || errors.Is(err, fusion.ErrInvalidRankConstant) {
		return fmt.Errorf("%w: %w", ErrInvalidWeights, err)
	}

	var dm *segment.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
