package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardAnalyzer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "The quick brown fox", []string{"the", "quick", "brown", "fox"}},
		{"punctuation", "hello, world! (again)", []string{"hello", "world", "again"}},
		{"digits", "BM25 scores 2x", []string{"bm25", "scores", "2x"}},
		{"empty", "  \t ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(StandardAnalyzer{}, tt.text))
		})
	}
}

func TestUniqueTerms(t *testing.T) {
	assert.Equal(t, []string{"fox", "dog"}, UniqueTerms(StandardAnalyzer{}, "fox dog FOX dog"))
}
