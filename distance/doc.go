// Package distance provides vector similarity functions.
//
// Scores produced by Metric.Score are non-negative, higher is better, so
// they can be fused with lexical scores.
package distance
