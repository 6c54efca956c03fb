package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("segment bytes")
	require.NoError(t, store.Put(ctx, "segments/1.seg", data))
	data[0] = 'X'

	blob, err := store.Open(ctx, "segments/1.seg")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob.Size())

	buf := make([]byte, 7)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "segment", string(buf[:n]))
	require.NoError(t, blob.Close())

	_, err = store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "segments/0.seg", nil))
	require.NoError(t, store.Put(ctx, "other", nil))
	names, err := store.List(ctx, "segments/")
	require.NoError(t, err)
	assert.Equal(t, []string{"segments/0.seg", "segments/1.seg"}, names)

	require.NoError(t, store.Delete(ctx, "segments/0.seg"))
	names, err = store.List(ctx, "segments/")
	require.NoError(t, err)
	assert.Equal(t, []string{"segments/1.seg"}, names)
}

// rangeOnlyStore hides Mappable so ReadAll takes the ReadAt path.
type rangeOnlyStore struct {
	*MemoryStore
}

type rangeOnlyBlob struct {
	b Blob
}

func (r rangeOnlyBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	return r.b.ReadAt(ctx, p, off)
}
func (r rangeOnlyBlob) Close() error { return r.b.Close() }
func (r rangeOnlyBlob) Size() int64  { return r.b.Size() }

func (s rangeOnlyStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return rangeOnlyBlob{b: b}, nil
}

func TestReadAll(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "a", []byte("alpha")))
	require.NoError(t, mem.Put(ctx, "empty", nil))

	for _, store := range []BlobStore{mem, rangeOnlyStore{mem}} {
		data, err := ReadAll(ctx, store, "a")
		require.NoError(t, err)
		assert.Equal(t, "alpha", string(data))

		data, err = ReadAll(ctx, store, "empty")
		require.NoError(t, err)
		assert.Empty(t, data)

		_, err = ReadAll(ctx, store, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}

	// The copy is independent of the stored blob.
	data, err := ReadAll(ctx, mem, "a")
	require.NoError(t, err)
	data[0] = 'X'
	again, err := ReadAll(ctx, mem, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(again))
}

func TestNewReader(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "a", []byte("streamed content")))

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	defer blob.Close()

	data, err := io.ReadAll(NewReader(ctx, blob))
	require.NoError(t, err)
	assert.Equal(t, "streamed content", string(data))
}
