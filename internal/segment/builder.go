package segment

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/lexical"
	"github.com/hupe1980/hybridscan/model"
)

type termBuf struct {
	rows  []uint32
	freqs []uint32
}

type fieldBuf struct {
	terms   map[string]*termBuf
	lengths []uint32
	total   uint64
	count   int
}

// Builder accumulates documents into a new Segment.
// A Builder is not safe for concurrent use.
type Builder struct {
	name     string
	analyzer lexical.Analyzer

	pks     []model.PrimaryKey
	pkIndex map[model.PrimaryKey]model.RowID
	fields  map[string]*fieldBuf
	tags    map[string][]uint32

	dim       int
	vectors   []float32
	hasVector []uint32
}

// NewBuilder creates a Builder for a segment called name.
// If analyzer is nil, lexical.StandardAnalyzer is used.
func NewBuilder(name string, analyzer lexical.Analyzer) *Builder {
	if analyzer == nil {
		analyzer = lexical.StandardAnalyzer{}
	}
	return &Builder{
		name:     name,
		analyzer: analyzer,
		pkIndex:  make(map[model.PrimaryKey]model.RowID),
		fields:   make(map[string]*fieldBuf),
		tags:     make(map[string][]uint32),
	}
}

// Len returns the number of documents added so far.
func (b *Builder) Len() int { return len(b.pks) }

// Add appends doc as the next row.
func (b *Builder) Add(doc model.Document) error {
	if _, ok := b.pkIndex[doc.PK]; ok {
		return ErrDuplicatePK
	}
	if len(doc.Vector) > 0 {
		if b.dim == 0 {
			b.dim = len(doc.Vector)
		} else if len(doc.Vector) != b.dim {
			return &ErrDimensionMismatch{Expected: b.dim, Actual: len(doc.Vector)}
		}
	}

	row := uint32(len(b.pks))
	b.pks = append(b.pks, doc.PK)
	b.pkIndex[doc.PK] = model.RowID(row)

	// every known field gets a length slot for this row
	for _, f := range b.fields {
		f.lengths = append(f.lengths, 0)
	}
	for name, text := range doc.Fields {
		b.addField(row, name, text)
	}

	seen := make(map[string]struct{}, len(doc.Tags))
	for _, tag := range doc.Tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		b.tags[tag] = append(b.tags[tag], row)
	}

	if b.dim > 0 {
		if len(doc.Vector) > 0 {
			b.vectors = append(b.vectors, doc.Vector...)
			b.hasVector = append(b.hasVector, row)
		} else {
			b.vectors = append(b.vectors, make([]float32, b.dim)...)
		}
	}
	return nil
}

func (b *Builder) addField(row uint32, name, text string) {
	f, ok := b.fields[name]
	if !ok {
		f = &fieldBuf{
			terms:   make(map[string]*termBuf),
			lengths: make([]uint32, row+1),
		}
		b.fields[name] = f
	}

	tf := make(map[string]uint32)
	var length uint32
	b.analyzer.Tokens(text, func(t string) {
		tf[t]++
		length++
	})
	if length == 0 {
		return
	}

	f.lengths[row] = length
	f.total += uint64(length)
	f.count++
	for t, count := range tf {
		tb, ok := f.terms[t]
		if !ok {
			tb = &termBuf{}
			f.terms[t] = tb
		}
		tb.rows = append(tb.rows, row)
		tb.freqs = append(tb.freqs, count)
	}
}

// Build returns the segment. The Builder must not be used afterwards.
func (b *Builder) Build() *Segment {
	s := &Segment{
		name:      b.name,
		pks:       b.pks,
		pkIndex:   b.pkIndex,
		fields:    make(map[string]*Field, len(b.fields)),
		tags:      make(map[string]*roaring.Bitmap, len(b.tags)),
		dim:       b.dim,
		hasVector: roaring.BitmapOf(b.hasVector...),
		deleted:   roaring.New(),
	}

	// vectors added before the first vector-bearing document have no slot yet
	if b.dim > 0 {
		full := make([]float32, len(b.pks)*b.dim)
		copy(full[len(full)-len(b.vectors):], b.vectors)
		s.vectors = full
	}

	for name, fb := range b.fields {
		f := &Field{
			Terms:       make(map[string]*Posting, len(fb.terms)),
			Lengths:     fb.lengths,
			TotalLength: fb.total,
			DocCount:    fb.count,
		}
		// rows were appended in ascending order, freqs are already aligned
		for t, tb := range fb.terms {
			f.Terms[t] = &Posting{Docs: roaring.BitmapOf(tb.rows...), Freqs: tb.freqs}
		}
		s.fields[name] = f
	}

	for tag, rows := range b.tags {
		bm := roaring.BitmapOf(rows...)
		bm.RunOptimize()
		s.tags[tag] = bm
	}

	for _, f := range s.fields {
		for len(f.Lengths) < len(s.pks) {
			f.Lengths = append(f.Lengths, 0)
		}
	}
	return s
}
