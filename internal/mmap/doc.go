// Package mmap loads LocalStore blobs read-only for whole-blob decoding.
//
// Segment files of at least MinMapSize bytes are mapped (mmap(2) with
// MADV_SEQUENTIAL on Unix, MapViewOfFile on Windows). Tombstone bitmaps
// and other small blobs, as well as every file on platforms without
// mapping support, are read into memory instead. Callers see the same
// File either way.
//
// A File is safe for concurrent reads. Close is idempotent, but the slice
// returned by Bytes must not be used after Close.
package mmap
