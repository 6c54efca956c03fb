// Package lexical defines text analysis for keyword sub-queries.
//
// # Built-in Implementation
//
// StandardAnalyzer lowercases text and splits it on every rune that is not
// a letter or a digit. The bm25 subpackage provides the BM25 similarity
// used to score term matches.
//
// # Custom Implementations
//
// Implement the Analyzer interface for custom tokenization:
//
//	type Analyzer interface {
//	    Tokens(text string, fn func(token string))
//	}
//
// The same analyzer must be used for indexing and querying.
package lexical
