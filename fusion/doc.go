// Package fusion combines the per-sub-query result lists of a hybrid query
// into one ranked list.
//
// Scores are first normalized per sub-query across the merged result set
// (MinMax, L2, ZScore or None) and then combined per document with a
// weighted arithmetic, geometric or harmonic mean. RRF ignores the scores
// and combines ranks instead:
//
//	score(d) = Σ w_i / (k + rank_i(d))
//
// A document missing from a sub-query's list has the score 0 for that
// sub-query and the sub-query is left out of the mean.
package fusion
