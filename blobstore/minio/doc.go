// Package minio provides a BlobStore backed by MinIO or any other
// S3-compatible server (Ceph, SeaweedFS, Garage).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "indexes/products/")
//	if err := store.EnsureBucket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	s, err := hybridscan.Open(ctx, store)
//
// Reads use ranged GETs, so a blob handle costs one StatObject call.
package minio
