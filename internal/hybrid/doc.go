// Package hybrid implements window-at-a-time evaluation of hybrid queries.
//
// A hybrid query is a set of independent sub-queries whose per-document
// scores are kept apart so a downstream combiner can fuse them. Evaluation
// proceeds in fixed-size windows of WindowSize documents:
//
//	┌──────────────────────────── BulkScorer ────────────────────────────┐
//	│  sub-query scorers ──▶ match bitset (1 bit / doc in window)        │
//	│                   └──▶ score table [subQuery][positionInWindow]    │
//	└────────────────────────────────┬───────────────────────────────────┘
//	                                 ▼
//	                  DocIDStream (bound to window base)
//	                                 ▼
//	     Collector ◀── (doc, shared SubQueryScores) in ascending doc order
//
// The shared score vector is a borrowed view: it is valid only while the
// ForEach callback runs and is reset after every document.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. Evaluate segments
// concurrently by giving every goroutine its own BulkScorer.
package hybrid
