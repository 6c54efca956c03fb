// Package testutil provides testing utilities for hybridscan.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors and documents and for
// computing exact nearest neighbours.
//
// # Random Generation
//
//	rng := testutil.NewRNG(seed)
//	vec := make([]float32, 128)
//	rng.FillUniform(vec)              // uniform [0, 1)
//	docs := rng.Documents(1000, 32)   // Zipfian text, tags and unit vectors
//
// # Exact Search (Ground Truth)
//
//	pks := testutil.ExactTopK(query, docs, k, distance.Cosine)
package testutil
