package mmap

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestOpen_SmallFileIsRead(t *testing.T) {
	content := []byte("HSEG segment payload")
	m, err := Open(writeFile(t, "a.del", content))
	require.NoError(t, err)
	defer m.Close()

	assert.False(t, m.Mapped())
	assert.Equal(t, len(content), m.Len())
	assert.Equal(t, content, m.Bytes())

	buf := make([]byte, 7)
	n, err := m.ReadAt(buf, 13)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "payload", string(buf))
}

func TestOpen_LargeFileIsMapped(t *testing.T) {
	content := bytes.Repeat([]byte("segment-"), MinMapSize/8+1)
	m, err := Open(writeFile(t, "a.seg", content))
	require.NoError(t, err)
	defer m.Close()

	if runtime.GOOS != "js" && runtime.GOOS != "wasip1" {
		assert.True(t, m.Mapped())
	}
	assert.Equal(t, content, m.Bytes())
}

func TestFile_ReadAt(t *testing.T) {
	m, err := Open(writeFile(t, "a.seg", []byte("HSEG segment payload")))
	require.NoError(t, err)
	defer m.Close()

	tests := []struct {
		name    string
		size    int
		off     int64
		wantN   int
		wantErr error
	}{
		{"full", 4, 0, 4, nil},
		{"past end", 10, 100, 0, io.EOF},
		{"partial", 10, 13, 7, io.EOF},
		{"negative", 1, -1, 0, ErrNegativeOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := m.ReadAt(make([]byte, tt.size), tt.off)
			assert.Equal(t, tt.wantN, n)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestFile_Close(t *testing.T) {
	for _, size := range []int{3, MinMapSize} {
		m, err := Open(writeFile(t, "a.seg", make([]byte, size)))
		require.NoError(t, err)

		require.NoError(t, m.Close())
		require.NoError(t, m.Close())
		assert.Nil(t, m.Bytes())

		_, err = m.ReadAt(make([]byte, 1), 0)
		assert.Equal(t, ErrClosed, err)
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	m, err := Open(writeFile(t, "a.seg", nil))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Bytes())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.seg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
