package model

import "fmt"

// PrimaryKey is the user-facing stable identifier of a document.
type PrimaryKey uint64

// RowID is a dense, segment-local identifier for a document.
// Row ids are assigned in insertion order starting at zero.
type RowID uint32

// Document is the unit of indexing.
type Document struct {
	PK PrimaryKey
	// Fields holds analyzed text fields (e.g. "title", "body").
	Fields map[string]string
	// Tags are exact-match keywords used for filtering and tag sub-queries.
	Tags []string
	// Vector is the optional dense embedding of the document.
	Vector []float32
}

// Hit is a single fused search result.
type Hit struct {
	PK PrimaryKey
	// Segment is the name of the segment the document lives in.
	Segment string
	Row     RowID
	// Score is the fused hybrid score.
	Score float32
	// SubQueryScores holds the raw score of every sub-query; 0 means the
	// sub-query did not match.
	SubQueryScores []float32
}

// String returns a string representation of the Hit.
func (h Hit) String() string {
	return fmt.Sprintf("Hit(%d score=%.4f %v)", h.PK, h.Score, h.SubQueryScores)
}
