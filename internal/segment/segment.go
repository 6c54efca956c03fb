package segment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/model"
)

var (
	// ErrDuplicatePK is returned when a primary key is added twice.
	ErrDuplicatePK = errors.New("duplicate primary key")
	// ErrNotFound is returned when a primary key is not in the segment.
	ErrNotFound = errors.New("primary key not found")
)

// ErrDimensionMismatch indicates a vector with the wrong dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Posting is the posting list of a single term.
type Posting struct {
	// Docs holds the rows containing the term.
	Docs *roaring.Bitmap
	// Freqs holds the term frequency of each row of Docs, in ascending row order.
	Freqs []uint32
}

// Field is the inverted index of a single text field.
type Field struct {
	Terms map[string]*Posting
	// Lengths holds the token count of the field for every row.
	Lengths     []uint32
	TotalLength uint64
	// DocCount is the number of rows with a non-empty field.
	DocCount int
}

// AvgLength returns the average field length over rows that have the field.
func (f *Field) AvgLength() float64 {
	if f.DocCount == 0 {
		return 0
	}
	return float64(f.TotalLength) / float64(f.DocCount)
}

// Segment is an immutable set of indexed documents.
type Segment struct {
	name    string
	pks     []model.PrimaryKey
	pkIndex map[model.PrimaryKey]model.RowID
	fields  map[string]*Field
	tags    map[string]*roaring.Bitmap

	dim       int
	vectors   []float32
	hasVector *roaring.Bitmap

	mu      sync.RWMutex
	deleted *roaring.Bitmap
}

// Name returns the segment name.
func (s *Segment) Name() string { return s.name }

// NumDocs returns the number of rows, including deleted ones.
func (s *Segment) NumDocs() int { return len(s.pks) }

// Dimension returns the vector dimension, or 0 if the segment has no vectors.
func (s *Segment) Dimension() int { return s.dim }

// PK returns the primary key of row.
func (s *Segment) PK(row model.RowID) model.PrimaryKey { return s.pks[row] }

// Row returns the row of pk.
func (s *Segment) Row(pk model.PrimaryKey) (model.RowID, bool) {
	row, ok := s.pkIndex[pk]
	return row, ok
}

// Field returns the inverted index of a text field, or nil.
func (s *Segment) Field(name string) *Field { return s.fields[name] }

// Tag returns the rows carrying tag, or nil.
func (s *Segment) Tag(tag string) *roaring.Bitmap { return s.tags[tag] }

// Vector returns the vector of row, or nil if the row has none.
// The slice aliases segment memory and must not be modified.
func (s *Segment) Vector(row model.RowID) []float32 {
	if s.dim == 0 || !s.hasVector.Contains(uint32(row)) {
		return nil
	}
	off := int(row) * s.dim
	return s.vectors[off : off+s.dim : off+s.dim]
}

// VectorRows returns the rows that have a vector.
func (s *Segment) VectorRows() *roaring.Bitmap { return s.hasVector }

// Delete marks pk as deleted.
func (s *Segment) Delete(pk model.PrimaryKey) error {
	row, ok := s.pkIndex[pk]
	if !ok {
		return ErrNotFound
	}
	s.mu.Lock()
	s.deleted.Add(uint32(row))
	s.mu.Unlock()
	return nil
}

// DeletedCount returns the number of deleted rows.
func (s *Segment) DeletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(s.deleted.GetCardinality())
}

// LiveDocs returns a snapshot of the rows that are not deleted.
func (s *Segment) LiveDocs() *roaring.Bitmap {
	live := roaring.New()
	live.AddRange(0, uint64(len(s.pks)))

	s.mu.RLock()
	live.AndNot(s.deleted)
	s.mu.RUnlock()
	return live
}

// IsLive reports whether pk is in the segment and not deleted.
func (s *Segment) IsLive(pk model.PrimaryKey) bool {
	row, ok := s.pkIndex[pk]
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.deleted.Contains(uint32(row))
}

// Tombstones serializes the deleted rows in the portable roaring format.
func (s *Segment) Tombstones() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleted.ToBytes()
}

// TombstonesWith serializes the deleted rows plus the row of pk without
// marking it deleted.
func (s *Segment) TombstonesWith(pk model.PrimaryKey) ([]byte, error) {
	row, ok := s.pkIndex[pk]
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	bm := s.deleted.Clone()
	s.mu.RUnlock()
	bm.Add(uint32(row))
	return bm.ToBytes()
}

// ApplyTombstones marks the rows of a serialized bitmap as deleted.
func (s *Segment) ApplyTombstones(data []byte) error {
	bm := roaring.New()
	if err := bm.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("%w: tombstones: %w", ErrCorrupt, err)
	}
	if last := bm.Maximum(); !bm.IsEmpty() && int(last) >= len(s.pks) {
		return fmt.Errorf("%w: tombstone row %d out of range", ErrCorrupt, last)
	}
	s.mu.Lock()
	s.deleted.Or(bm)
	s.mu.Unlock()
	return nil
}
