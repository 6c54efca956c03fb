// Package bitset provides a fixed-size, word-packed bitset for per-window
// match tracking.
//
// Architecture:
//   - Dense []uint64 storage, bit i lives in word i>>6 at offset i&63
//   - Dirty-word tracking: ClearAll only touches words that were written
//   - Not thread-safe: one bitset per goroutine (per bound window)
//
// Used internally for:
//   - Window match bitsets filled by the hybrid bulk scorer
//   - Scanning matches in ascending order via TrailingZeros64
package bitset
