// Package model defines core types used throughout hybridscan.
//
// # Identity Types
//
//   - PrimaryKey: user-facing stable document identifier (uint64)
//   - RowID: segment-local dense document identifier (uint32)
//
// # Data Types
//
//   - Document: text fields, tags and an optional vector
//   - Hit: fused search result with per-sub-query scores
package model
