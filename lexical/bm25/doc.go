// Package bm25 provides the BM25 similarity used to score term matches.
//
// BM25 (Best Matching 25) is a ranking function used for keyword search.
// Statistics (document count, average field length, document frequency)
// are taken from the segment being searched.
//
// # Parameters
//
// Uses standard BM25 parameters: k1=1.2, b=0.75
//
//	idf   = ln(1 + (N - n + 0.5) / (n + 0.5))
//	score = idf * tf * (k1 + 1) / (tf + k1 * (1 - b + b * dl / avgdl))
package bm25
