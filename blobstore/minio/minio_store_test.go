package minio

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/hybridscan/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Keys(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		key    string
	}{
		{"", "segments/1.seg", "segments/1.seg"},
		{"idx", "segments/1.seg", "idx/segments/1.seg"},
		{"idx/", "segments/1.seg", "idx/segments/1.seg"},
	}

	for _, tt := range tests {
		s := NewStore(nil, "bucket", tt.prefix)
		assert.Equal(t, tt.key, s.key(tt.name))
		assert.Equal(t, tt.name, s.relName(tt.key))
	}
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	store := NewStore(client, "test-hybridscan", "test-prefix/")
	require.NoError(t, store.EnsureBucket(ctx))

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "segments/test.seg", data))

	got, err := blobstore.ReadAll(ctx, store, "segments/test.seg")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	blob, err := store.Open(ctx, "segments/test.seg")
	require.NoError(t, err)
	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(buf[:n]))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "segments/")
	require.NoError(t, err)
	assert.Contains(t, names, "segments/test.seg")

	require.NoError(t, store.Delete(ctx, "segments/test.seg"))
	_, err = store.Open(ctx, "segments/test.seg")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
