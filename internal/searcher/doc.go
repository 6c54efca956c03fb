// Package searcher provides the bounded top-K queue shared by k-NN
// sub-queries and hybrid result collection.
package searcher
