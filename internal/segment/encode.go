package segment

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/codec"
	"github.com/hupe1980/hybridscan/model"
)

const (
	formatVersion = 1
	headerSize    = 7 // magic(4) + version(1) + compression(1) + codecLen(1)
)

var magic = [4]byte{'H', 'S', 'E', 'G'}

// ErrCorrupt is returned when a segment blob cannot be decoded.
var ErrCorrupt = errors.New("corrupt segment")

type postingFile struct {
	Docs  []byte   `json:"docs"`
	Freqs []uint32 `json:"freqs"`
}

type fieldFile struct {
	Terms       map[string]postingFile `json:"terms"`
	Lengths     []uint32               `json:"lengths"`
	TotalLength uint64                 `json:"total_length"`
	DocCount    int                    `json:"doc_count"`
}

type segmentFile struct {
	Name      string               `json:"name"`
	PKs       []uint64             `json:"pks"`
	Fields    map[string]fieldFile `json:"fields"`
	Tags      map[string][]byte    `json:"tags"`
	Dim       int                  `json:"dim"`
	Vectors   []float32            `json:"vectors,omitempty"`
	HasVector []byte               `json:"has_vector"`
	Deleted   []byte               `json:"deleted"`
}

// Encode writes s to w using codec c and compression comp.
// A nil codec selects codec.Default.
func (s *Segment) Encode(w io.Writer, c codec.Codec, comp Compression) error {
	if c == nil {
		c = codec.Default
	}

	f, err := s.toFile()
	if err != nil {
		return err
	}
	payload, err := c.Marshal(f)
	if err != nil {
		return fmt.Errorf("segment %s: marshal: %w", s.name, err)
	}
	block, err := compressBlock(payload, comp)
	if err != nil {
		return fmt.Errorf("segment %s: compress: %w", s.name, err)
	}

	name := c.Name()
	if len(name) > 255 {
		return fmt.Errorf("codec name %q too long", name)
	}
	header := make([]byte, 0, headerSize+len(name))
	header = append(header, magic[:]...)
	header = append(header, formatVersion, byte(comp), byte(len(name)))
	header = append(header, name...)

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(block)
	return err
}

// Bytes encodes s into a byte slice.
func (s *Segment) Bytes(c codec.Codec, comp Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf, c, comp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a segment blob written by Encode.
func Decode(data []byte) (*Segment, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if data[4] != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, data[4])
	}
	comp := Compression(data[5])
	nameLen := int(data[6])
	if len(data) < headerSize+nameLen {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	codecName := string(data[headerSize : headerSize+nameLen])
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrCorrupt, codecName)
	}

	payload, err := decompressBlock(data[headerSize+nameLen:], comp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var f segmentFile
	if err := c.Unmarshal(payload, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return fromFile(&f)
}

func bitmapBytes(bm *roaring.Bitmap) ([]byte, error) {
	if bm == nil {
		bm = roaring.New()
	}
	return bm.ToBytes()
}

func bitmapFromBytes(b []byte) (*roaring.Bitmap, error) {
	bm := roaring.New()
	if len(b) == 0 {
		return bm, nil
	}
	if err := bm.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return bm, nil
}

func (s *Segment) toFile() (*segmentFile, error) {
	f := &segmentFile{
		Name:    s.name,
		PKs:     make([]uint64, len(s.pks)),
		Fields:  make(map[string]fieldFile, len(s.fields)),
		Tags:    make(map[string][]byte, len(s.tags)),
		Dim:     s.dim,
		Vectors: s.vectors,
	}
	for i, pk := range s.pks {
		f.PKs[i] = uint64(pk)
	}

	var err error
	for name, fld := range s.fields {
		ff := fieldFile{
			Terms:       make(map[string]postingFile, len(fld.Terms)),
			Lengths:     fld.Lengths,
			TotalLength: fld.TotalLength,
			DocCount:    fld.DocCount,
		}
		for t, p := range fld.Terms {
			docs, err := bitmapBytes(p.Docs)
			if err != nil {
				return nil, err
			}
			ff.Terms[t] = postingFile{Docs: docs, Freqs: p.Freqs}
		}
		f.Fields[name] = ff
	}
	for tag, bm := range s.tags {
		if f.Tags[tag], err = bitmapBytes(bm); err != nil {
			return nil, err
		}
	}
	if f.HasVector, err = bitmapBytes(s.hasVector); err != nil {
		return nil, err
	}

	s.mu.RLock()
	f.Deleted, err = bitmapBytes(s.deleted)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return f, nil
}

func fromFile(f *segmentFile) (*Segment, error) {
	n := len(f.PKs)
	s := &Segment{
		name:    f.Name,
		pks:     make([]model.PrimaryKey, n),
		pkIndex: make(map[model.PrimaryKey]model.RowID, n),
		fields:  make(map[string]*Field, len(f.Fields)),
		tags:    make(map[string]*roaring.Bitmap, len(f.Tags)),
		dim:     f.Dim,
		vectors: f.Vectors,
	}
	for i, pk := range f.PKs {
		s.pks[i] = model.PrimaryKey(pk)
		s.pkIndex[model.PrimaryKey(pk)] = model.RowID(i)
	}
	if s.dim > 0 && len(s.vectors) != n*s.dim {
		return nil, fmt.Errorf("%w: vector data has %d floats, want %d", ErrCorrupt, len(s.vectors), n*s.dim)
	}

	var err error
	for name, ff := range f.Fields {
		if len(ff.Lengths) != n {
			return nil, fmt.Errorf("%w: field %q has %d lengths, want %d", ErrCorrupt, name, len(ff.Lengths), n)
		}
		fld := &Field{
			Terms:       make(map[string]*Posting, len(ff.Terms)),
			Lengths:     ff.Lengths,
			TotalLength: ff.TotalLength,
			DocCount:    ff.DocCount,
		}
		for t, pf := range ff.Terms {
			docs, err := bitmapFromBytes(pf.Docs)
			if err != nil {
				return nil, fmt.Errorf("%w: term %q: %w", ErrCorrupt, t, err)
			}
			if docs.GetCardinality() != uint64(len(pf.Freqs)) {
				return nil, fmt.Errorf("%w: term %q freqs misaligned", ErrCorrupt, t)
			}
			fld.Terms[t] = &Posting{Docs: docs, Freqs: pf.Freqs}
		}
		s.fields[name] = fld
	}
	for tag, b := range f.Tags {
		if s.tags[tag], err = bitmapFromBytes(b); err != nil {
			return nil, fmt.Errorf("%w: tag %q: %w", ErrCorrupt, tag, err)
		}
	}
	if s.hasVector, err = bitmapFromBytes(f.HasVector); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if s.deleted, err = bitmapFromBytes(f.Deleted); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return s, nil
}
