package testutil

import (
	"testing"

	"github.com/hupe1980/hybridscan/distance"
	"github.com/hupe1980/hybridscan/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	assert.LessOrEqual(t, v[0][0], float32(1.0))
	assert.GreaterOrEqual(t, v[1][0], float32(0.0))
}

func TestUnitVector(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVector(32)

	var sum float32
	for _, val := range v {
		sum += val * val
	}
	assert.InDelta(t, float32(1.0), sum, 1e-5)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformVectors(1, 10)

	rng.Reset()
	v2 := rng.UniformVectors(1, 10)

	assert.Equal(t, v1, v2)
}

func TestZipf(t *testing.T) {
	rng := NewRNG(42)

	counts := make([]int, 10)
	for range 5000 {
		counts[rng.Zipf(10, 1.0)]++
	}
	assert.Greater(t, counts[0], counts[9])
	assert.Equal(t, 0, rng.Zipf(1, 1.0))
}

func TestDocuments(t *testing.T) {
	rng := NewRNG(42)

	docs := rng.Documents(50, 8)

	require.Len(t, docs, 50)
	for i, d := range docs {
		assert.Equal(t, model.PrimaryKey(i+1), d.PK)
		assert.NotEmpty(t, d.Fields["body"])
		assert.Len(t, d.Tags, 1)
		assert.Len(t, d.Vector, 8)
	}

	noVec := NewRNG(42).Documents(3, 0)
	assert.Nil(t, noVec[0].Vector)
}

func TestExactTopK(t *testing.T) {
	docs := []model.Document{
		{PK: 1, Vector: []float32{1, 0}},
		{PK: 2, Vector: []float32{0, 1}},
		{PK: 3, Vector: []float32{1, 0}},
		{PK: 4},
	}

	got := ExactTopK([]float32{1, 0}, docs, 2, distance.Cosine)
	assert.Equal(t, []model.PrimaryKey{1, 3}, got)

	got = ExactTopK([]float32{1, 0}, docs, 10, distance.Cosine)
	assert.Equal(t, []model.PrimaryKey{1, 3, 2}, got)
}

func TestComputeRecall(t *testing.T) {
	tests := []struct {
		name   string
		truth  []model.PrimaryKey
		approx []model.PrimaryKey
		want   float64
	}{
		{"both empty", nil, nil, 1},
		{"one empty", []model.PrimaryKey{1}, nil, 0},
		{"perfect", []model.PrimaryKey{1, 2}, []model.PrimaryKey{2, 1}, 1},
		{"half", []model.PrimaryKey{1, 2}, []model.PrimaryKey{1, 3}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeRecall(tt.truth, tt.approx), 1e-9)
		})
	}
}
