// Package blobstore abstracts where segment files live.
//
// A BlobStore reads, writes and lists immutable blobs by name. Segments
// are written once with Put and read back whole with ReadAll when a
// Searcher opens them.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral indexes
//   - LocalStore: local filesystem, reads through mmap
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// Implementations must be safe for concurrent use.
package blobstore
