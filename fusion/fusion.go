package fusion

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// DefaultRankConstant is the k of the RRF formula.
const DefaultRankConstant = 60

var (
	// ErrInvalidWeights is returned when weights do not match the number of
	// lists or contain negative values.
	ErrInvalidWeights = errors.New("fusion: invalid weights")

	// ErrInvalidRankConstant is returned for an RRF rank constant < 1.
	ErrInvalidRankConstant = errors.New("fusion: rank constant must be >= 1")
)

// Scored is one entry of a sub-query result list.
type Scored struct {
	ID    uint64
	Score float32
}

// Result is a fused document.
type Result struct {
	ID    uint64
	Score float32
	// Scores holds the raw score of every sub-query, 0 where the document
	// is absent from that sub-query's list.
	Scores []float32
}

// Normalization selects how raw scores are rescaled per sub-query.
type Normalization int

const (
	MinMax Normalization = iota
	L2
	ZScore
	None
)

func (n Normalization) String() string {
	switch n {
	case MinMax:
		return "min_max"
	case L2:
		return "l2"
	case ZScore:
		return "z_score"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Normalization(%d)", int(n))
	}
}

// ParseNormalization parses the String form of a Normalization.
func ParseNormalization(s string) (Normalization, error) {
	for _, n := range []Normalization{MinMax, L2, ZScore, None} {
		if strings.EqualFold(s, n.String()) {
			return n, nil
		}
	}
	return 0, fmt.Errorf("fusion: unknown normalization %q", s)
}

// Combination selects how the normalized scores of a document are merged.
type Combination int

const (
	ArithmeticMean Combination = iota
	GeometricMean
	HarmonicMean
	RRF
)

func (c Combination) String() string {
	switch c {
	case ArithmeticMean:
		return "arithmetic_mean"
	case GeometricMean:
		return "geometric_mean"
	case HarmonicMean:
		return "harmonic_mean"
	case RRF:
		return "rrf"
	default:
		return fmt.Sprintf("Combination(%d)", int(c))
	}
}

// ParseCombination parses the String form of a Combination.
func ParseCombination(s string) (Combination, error) {
	for _, c := range []Combination{ArithmeticMean, GeometricMean, HarmonicMean, RRF} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("fusion: unknown combination %q", s)
}

// Options configures Fuse.
type Options struct {
	Normalization Normalization
	Combination   Combination
	// Weights holds one non-negative weight per list. Empty means equal
	// weights.
	Weights []float32
	// RankConstant is the k of RRF.
	RankConstant int
}

// DefaultOptions returns min-max normalization with an unweighted
// arithmetic mean.
func DefaultOptions() Options {
	return Options{
		Normalization: MinMax,
		Combination:   ArithmeticMean,
		RankConstant:  DefaultRankConstant,
	}
}

// Validate checks the options for numLists result lists.
func (o Options) Validate(numLists int) error {
	if len(o.Weights) > 0 {
		if len(o.Weights) != numLists {
			return fmt.Errorf("%w: got %d weights for %d sub-queries", ErrInvalidWeights, len(o.Weights), numLists)
		}
		var sum float32
		for _, w := range o.Weights {
			if w < 0 || math.IsNaN(float64(w)) {
				return fmt.Errorf("%w: negative or NaN weight %v", ErrInvalidWeights, w)
			}
			sum += w
		}
		if sum == 0 {
			return fmt.Errorf("%w: all weights are zero", ErrInvalidWeights)
		}
	}
	if o.Combination == RRF && o.RankConstant < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRankConstant, o.RankConstant)
	}
	return nil
}

func (o Options) weight(i int) float32 {
	if len(o.Weights) == 0 {
		return 1
	}
	return o.Weights[i]
}

// Fuse merges lists, one per sub-query and each ordered best first, into
// a single list ordered by fused score. Ties are broken by ascending ID.
func Fuse(lists [][]Scored, opts Options) ([]Result, error) {
	if err := opts.Validate(len(lists)); err != nil {
		return nil, err
	}

	index := make(map[uint64]int)
	var results []Result
	for i, list := range lists {
		for _, s := range list {
			j, ok := index[s.ID]
			if !ok {
				j = len(results)
				index[s.ID] = j
				results = append(results, Result{ID: s.ID, Scores: make([]float32, len(lists))})
			}
			if results[j].Scores[i] == 0 {
				results[j].Scores[i] = s.Score
			}
		}
	}

	if opts.Combination == RRF {
		fuseRanks(lists, index, results, opts)
	} else {
		fuseScores(lists, index, results, opts)
	}

	slices.SortFunc(results, func(a, b Result) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return results, nil
}

func fuseRanks(lists [][]Scored, index map[uint64]int, results []Result, opts Options) {
	for i, list := range lists {
		w := opts.weight(i)
		seen := make(map[uint64]struct{}, len(list))
		rank := 0
		for _, s := range list {
			if _, dup := seen[s.ID]; dup {
				continue
			}
			seen[s.ID] = struct{}{}
			rank++
			results[index[s.ID]].Score += w / float32(opts.RankConstant+rank)
		}
	}
}

func fuseScores(lists [][]Scored, index map[uint64]int, results []Result, opts Options) {
	normalized := make([][]float32, len(results))
	for j := range normalized {
		normalized[j] = make([]float32, len(lists))
	}

	for i := range lists {
		column := make([]float32, 0, len(lists[i]))
		rows := make([]int, 0, len(lists[i]))
		for j := range results {
			if s := results[j].Scores[i]; s != 0 {
				column = append(column, s)
				rows = append(rows, j)
			}
		}
		normalize(opts.Normalization, column)
		for k, j := range rows {
			normalized[j][i] = column[k]
		}
	}

	for j := range results {
		results[j].Score = combine(opts, normalized[j])
	}
}
