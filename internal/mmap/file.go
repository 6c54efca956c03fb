package mmap

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
)

// MinMapSize is the smallest file Open maps. Smaller blobs, such as
// tombstone bitmaps, are read into memory since a mapping costs at least
// a page and a syscall pair.
const MinMapSize = 16 << 10

var (
	// ErrClosed is returned when reading a closed File.
	ErrClosed = errors.New("mmap: file is closed")
	// ErrNegativeOffset is returned by ReadAt for offsets below zero.
	ErrNegativeOffset = errors.New("mmap: negative offset")
)

// File is the read-only content of one blob file, either mapped or read
// into memory.
type File struct {
	data   []byte
	unmap  func([]byte) error
	closed atomic.Bool
}

// Open loads the file at path for a single front-to-back read. Files of
// at least MinMapSize bytes are mapped with a sequential access hint where
// the platform supports it; everything else is read with os.ReadFile.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size < MinMapSize {
		return readFile(f, size)
	}

	data, unmap, err := osMap(f, int(size))
	if errors.Is(err, errors.ErrUnsupported) {
		return readFile(f, size)
	}
	if err != nil {
		return nil, err
	}
	return &File{data: data, unmap: unmap}, nil
}

func readFile(f *os.File, size int64) (*File, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Mapped reports whether the content is backed by a mapping.
func (m *File) Mapped() bool { return m.unmap != nil }

// Len returns the size of the file in bytes.
func (m *File) Len() int { return len(m.data) }

// Bytes returns the content. A mapped slice is valid only until Close.
func (m *File) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// ReadAt implements io.ReaderAt.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the mapping. It is idempotent.
func (m *File) Close() error {
	if m.closed.Swap(true) || m.unmap == nil {
		return nil
	}
	return m.unmap(m.data)
}
