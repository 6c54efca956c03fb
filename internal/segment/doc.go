// Package segment implements immutable, in-memory document segments.
//
// A segment holds a dense range of row ids [0, NumDocs) and everything
// sub-query scorers need to evaluate a hybrid query against it:
//
//   - per-field inverted index: term -> roaring bitmap of rows + term freqs
//   - per-field document lengths (BM25 length normalization)
//   - tag index: tag -> roaring bitmap of rows
//   - row-major dense vectors
//   - deleted-rows roaring bitmap (tombstones)
//
// Segments are built once with a Builder and persisted with Encode as a
// self-describing blob:
//
//	┌────────┬─────────┬─────────────┬──────────┬───────────┬────────────────────────┐
//	│ "HSEG" │ version │ compression │ codecLen │ codecName │ block: [u32 raw][u32 c] │
//	└────────┴─────────┴─────────────┴──────────┴───────────┴────────────────────────┘
//
// Only the tombstone bitmap is mutable after Build; it is guarded by a lock
// and searches work on a snapshot taken with LiveDocs.
package segment
