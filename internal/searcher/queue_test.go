package searcher

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopK(t *testing.T) {
	q := NewTopK(3)

	assert.True(t, q.Push(1, 10))
	assert.True(t, q.Push(2, 5))
	assert.True(t, q.Push(3, 20))
	assert.True(t, q.Full())

	// worse than the current minimum
	assert.False(t, q.Push(4, 1))

	// better: evicts doc 2
	assert.True(t, q.Push(5, 15))

	top, ok := q.Min()
	require.True(t, ok)
	assert.Equal(t, ScoredDoc{Doc: 1, Score: 10}, top)

	assert.Equal(t, []ScoredDoc{{3, 20}, {5, 15}, {1, 10}}, q.Sorted())
	assert.Equal(t, 0, q.Len())
}

func TestTopK_TieBreak(t *testing.T) {
	q := NewTopK(2)
	q.Push(7, 1)
	q.Push(3, 1)
	q.Push(5, 1)

	// equal scores keep the lowest docs
	assert.Equal(t, []ScoredDoc{{3, 1}, {5, 1}}, q.Sorted())
}

func TestTopK_ZeroK(t *testing.T) {
	q := NewTopK(0)
	assert.False(t, q.Push(1, 100))
	assert.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestTopK_DocOrder(t *testing.T) {
	q := NewTopK(3)
	for doc, score := range []float32{0.1, 0.9, 0.5, 0.7, 0.2} {
		q.Push(doc, score)
	}
	assert.Equal(t, []ScoredDoc{{1, 0.9}, {2, 0.5}, {3, 0.7}}, q.DocOrder())
}

func TestTopK_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const k = 10

	var all []ScoredDoc
	q := NewTopK(k)
	for doc := 0; doc < 1000; doc++ {
		s := float32(rng.Intn(100))
		all = append(all, ScoredDoc{doc, s})
		q.Push(doc, s)
	}

	sort.Slice(all, func(i, j int) bool { return worse(all[j], all[i]) })
	assert.Equal(t, all[:k], q.Sorted())
}

func BenchmarkTopK_Push(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	scores := make([]float32, 4096)
	for i := range scores {
		scores[i] = rng.Float32()
	}
	q := NewTopK(100)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Reset()
		for doc, s := range scores {
			q.Push(doc, s)
		}
	}
}
