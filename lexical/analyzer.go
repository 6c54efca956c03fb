package lexical

import (
	"strings"
	"unicode"
)

// Analyzer splits text into index terms.
type Analyzer interface {
	// Tokens calls fn for every token of text in order.
	Tokens(text string, fn func(token string))
}

// StandardAnalyzer lowercases and splits on non letter/digit runes.
type StandardAnalyzer struct{}

// Ensure StandardAnalyzer implements Analyzer
var _ Analyzer = StandardAnalyzer{}

// Tokens implements Analyzer.
func (StandardAnalyzer) Tokens(text string, fn func(token string)) {
	for _, tok := range strings.FieldsFunc(text, isSeparator) {
		fn(strings.ToLower(tok))
	}
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Tokenize returns all tokens of text produced by a.
func Tokenize(a Analyzer, text string) []string {
	var out []string
	a.Tokens(text, func(t string) {
		out = append(out, t)
	})
	return out
}

// UniqueTerms returns the distinct tokens of text in first-seen order.
func UniqueTerms(a Analyzer, text string) []string {
	seen := make(map[string]struct{})
	var out []string
	a.Tokens(text, func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	})
	return out
}
