// This file implements a fluent search API for querying a Searcher.

package hybridscan

import (
	"context"
	"iter"

	"github.com/hupe1980/hybridscan/distance"
	"github.com/hupe1980/hybridscan/fusion"
	"github.com/hupe1980/hybridscan/model"
)

// Query creates a new fluent search builder.
//
// Example:
//
//	hits, err := s.Query().
//	    Match("body", "quick fox").
//	    KNN(embedding, distance.Cosine).
//	    Filter("lang:en").
//	    K(10).
//	    Execute(ctx)
//
//	// Or with streaming:
//	for hit, err := range s.Query().Match("body", "fox").K(100).Stream(ctx) {
//	    if err != nil { break }
//	    if hit.Score < threshold { break }
//	    process(hit)
//	}
func (s *Searcher) Query() *SearchBuilder {
	return &SearchBuilder{
		s: s,
		q: HybridQuery{K: 10}, // Default k
	}
}

// SearchBuilder is a fluent builder for constructing hybrid queries.
type SearchBuilder struct {
	s *Searcher
	q HybridQuery
}

// K sets the number of hits to return.
func (sb *SearchBuilder) K(k int) *SearchBuilder {
	sb.q.K = k
	return sb
}

// Match adds a BM25 sub-query over the analyzed text.
func (sb *SearchBuilder) Match(field, text string) *SearchBuilder {
	sb.q.SubQueries = append(sb.q.SubQueries, Match{Field: field, Text: text})
	return sb
}

// Term adds a BM25 sub-query over a single exact term.
func (sb *SearchBuilder) Term(field, term string) *SearchBuilder {
	sb.q.SubQueries = append(sb.q.SubQueries, Term{Field: field, Term: term})
	return sb
}

// Tags adds a constant-score sub-query over documents with any of tags.
func (sb *SearchBuilder) Tags(tags ...string) *SearchBuilder {
	sb.q.SubQueries = append(sb.q.SubQueries, Tags{Tags: tags})
	return sb
}

// KNN adds an exact nearest neighbour sub-query.
func (sb *SearchBuilder) KNN(vector []float32, metric distance.Metric) *SearchBuilder {
	sb.q.SubQueries = append(sb.q.SubQueries, KNN{Vector: vector, Metric: metric})
	return sb
}

// SubQuery adds an arbitrary sub-query.
func (sb *SearchBuilder) SubQuery(sq SubQuery) *SearchBuilder {
	sb.q.SubQueries = append(sb.q.SubQueries, sq)
	return sb
}

// Filter restricts every sub-query to documents carrying any of tags.
func (sb *SearchBuilder) Filter(tags ...string) *SearchBuilder {
	sb.q.Filter = &Filter{Tags: tags}
	return sb
}

// FilterAll restricts every sub-query to documents carrying all of tags.
func (sb *SearchBuilder) FilterAll(tags ...string) *SearchBuilder {
	sb.q.Filter = &Filter{Tags: tags, MatchAll: true}
	return sb
}

// Fusion overrides how sub-query results are combined.
func (sb *SearchBuilder) Fusion(opts fusion.Options) *SearchBuilder {
	sb.q.Fusion = &opts
	return sb
}

// Build returns the constructed query.
func (sb *SearchBuilder) Build() HybridQuery {
	return sb.q
}

// Execute runs the search and returns the hits.
func (sb *SearchBuilder) Execute(ctx context.Context) ([]model.Hit, error) {
	return sb.s.Search(ctx, sb.q)
}

// MustExecute runs the search, panicking on error.
// Use this only in tests or when you're certain the query is valid.
func (sb *SearchBuilder) MustExecute(ctx context.Context) []model.Hit {
	hits, err := sb.Execute(ctx)
	if err != nil {
		panic(err)
	}
	return hits
}

// Count returns the number of documents matching at least one sub-query.
func (sb *SearchBuilder) Count(ctx context.Context) (int, error) {
	return sb.s.Count(ctx, sb.q)
}

// Stream returns an iterator over the hits, best first.
// The iterator supports early termination by breaking from the loop.
func (sb *SearchBuilder) Stream(ctx context.Context) iter.Seq2[model.Hit, error] {
	return func(yield func(model.Hit, error) bool) {
		hits, err := sb.Execute(ctx)
		if err != nil {
			yield(model.Hit{}, err)
			return
		}
		for _, h := range hits {
			if !yield(h, nil) {
				return
			}
		}
	}
}

// First returns only the best hit, or ErrNotFound if nothing matched.
func (sb *SearchBuilder) First(ctx context.Context) (model.Hit, error) {
	sb.q.K = 1
	hits, err := sb.Execute(ctx)
	if err != nil {
		return model.Hit{}, err
	}
	if len(hits) == 0 {
		return model.Hit{}, ErrNotFound
	}
	return hits[0], nil
}
