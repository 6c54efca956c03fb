package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/hybridscan/distance"
	"github.com/hupe1980/hybridscan/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVector generates a single L2-normalized random vector.
func (r *RNG) UnitVector(dimensions int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unitVectorLocked(dimensions)
}

func (r *RNG) unitVectorLocked(dimensions int) []float32 {
	vec := make([]float32, dimensions)
	var norm float64
	for j := range vec {
		v := r.rand.NormFloat64()
		vec[j] = float32(v)
		norm += v * v
	}

	if norm == 0 {
		norm = 1
	}

	invNorm := float32(1.0 / math.Sqrt(norm))
	for j := range vec {
		vec[j] *= invNorm
	}
	return vec
}

// Zipf returns a Zipfian-distributed value in [0, n).
// s=1.0 gives standard Zipf, s=1.5 gives a heavy tail.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// Vocabulary returns n distinct words "w0" .. "w<n-1>". Low indices are the
// frequent ones under Text.
func Vocabulary(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return words
}

// Text returns numWords words of vocab drawn with Zipfian skew.
func (r *RNG) Text(vocab []string, numWords int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.textLocked(vocab, numWords)
}

func (r *RNG) textLocked(vocab []string, numWords int) string {
	words := make([]string, numWords)
	for i := range words {
		words[i] = vocab[r.zipfLocked(len(vocab), 1.0)]
	}
	return strings.Join(words, " ")
}

// Documents generates num documents with primary keys 1..num, a Zipfian
// "body" field, one of four "group-N" tags and a unit vector of dim
// dimensions (no vector if dim is 0).
func (r *RNG) Documents(num, dim int) []model.Document {
	vocab := Vocabulary(200)

	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]model.Document, num)
	for i := range docs {
		doc := model.Document{
			PK:     model.PrimaryKey(i + 1),
			Fields: map[string]string{"body": r.textLocked(vocab, 5+r.rand.Intn(20))},
			Tags:   []string{fmt.Sprintf("group-%d", r.rand.Intn(4))},
		}
		if dim > 0 {
			doc.Vector = r.unitVectorLocked(dim)
		}
		docs[i] = doc
	}
	return docs
}

// ExactTopK returns the primary keys of the k documents most similar to
// query under metric, best first with ties on the lower key.
func ExactTopK(query []float32, docs []model.Document, k int, metric distance.Metric) []model.PrimaryKey {
	type scored struct {
		pk    model.PrimaryKey
		score float32
	}
	all := make([]scored, 0, len(docs))
	for _, d := range docs {
		if len(d.Vector) == 0 {
			continue
		}
		all = append(all, scored{pk: d.PK, score: metric.Score(query, d.Vector)})
	}
	slices.SortFunc(all, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		case a.pk < b.pk:
			return -1
		case a.pk > b.pk:
			return 1
		}
		return 0
	})

	out := make([]model.PrimaryKey, 0, min(k, len(all)))
	for _, s := range all[:min(k, len(all))] {
		out = append(out, s.pk)
	}
	return out
}

// ComputeRecall returns the share of groundTruth found in approximate.
func ComputeRecall(groundTruth, approximate []model.PrimaryKey) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))

	truthSet := make(map[model.PrimaryKey]struct{}, k)
	for i := range k {
		truthSet[groundTruth[i]] = struct{}{}
	}

	hits := 0
	for _, pk := range approximate {
		if _, ok := truthSet[pk]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}
