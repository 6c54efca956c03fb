// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("indexes/products/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	s, err := hybridscan.Open(ctx, store)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large segments, CRC32C checksums for all uploads
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
