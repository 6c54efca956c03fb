// Package query implements the per-segment sub-query scorers of a hybrid
// query.
//
// Every scorer is a forward-only document iterator in ascending row order
// that can report a score for its current document:
//
//	doc := s.NextDoc()
//	for doc != NoMoreDocs {
//	    score := s.Score()
//	    doc = s.NextDoc()
//	}
//
// Scorers are single-use and not safe for concurrent use.
package query
