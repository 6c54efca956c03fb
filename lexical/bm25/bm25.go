package bm25

import "math"

const (
	// DefaultK1 controls term frequency saturation.
	DefaultK1 = 1.2
	// DefaultB controls document length normalization.
	DefaultB = 0.75
)

// Similarity holds BM25 parameters.
type Similarity struct {
	K1 float64
	B  float64
}

// Default returns the similarity with standard parameters.
func Default() Similarity {
	return Similarity{K1: DefaultK1, B: DefaultB}
}

// IDF computes the inverse document frequency of a term that occurs in
// docFreq of docCount documents.
func (s Similarity) IDF(docFreq, docCount int) float64 {
	N := float64(docCount)
	n := float64(docFreq)
	return math.Log(1 + (N-n+0.5)/(n+0.5))
}

// TermScorer scores occurrences of a single term in a field.
// Query-level constants are precomputed so Score is a handful of flops.
type TermScorer struct {
	idf      float64
	k1Plus1  float64
	k1OneMB  float64
	k1BAvgDL float64
	boost    float64
}

// Scorer precomputes BM25 constants for a term with the given document
// frequency in a field with docCount documents and average length avgDL.
func (s Similarity) Scorer(boost float64, docFreq, docCount int, avgDL float64) TermScorer {
	if avgDL <= 0 {
		avgDL = 1
	}
	return TermScorer{
		idf:      s.IDF(docFreq, docCount),
		k1Plus1:  s.K1 + 1,
		k1OneMB:  s.K1 * (1 - s.B),
		k1BAvgDL: s.K1 * s.B / avgDL,
		boost:    boost,
	}
}

// Score returns the BM25 score for term frequency tf in a document of
// length docLen.
func (ts TermScorer) Score(tf, docLen uint32) float32 {
	f := float64(tf)
	num := f * ts.k1Plus1
	denom := f + ts.k1OneMB + ts.k1BAvgDL*float64(docLen)
	return float32(ts.boost * ts.idf * (num / denom))
}
