package hybridscan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/hybridscan/blobstore"
	"github.com/hupe1980/hybridscan/fusion"
	"github.com/hupe1980/hybridscan/internal/hybrid"
	"github.com/hupe1980/hybridscan/internal/query"
	"github.com/hupe1980/hybridscan/internal/segment"
	"github.com/hupe1980/hybridscan/model"
	"github.com/hupe1980/hybridscan/resource"
)

const (
	segmentSuffix   = ".seg"
	tombstoneSuffix = ".del"
)

// Searcher runs hybrid queries over the segments of a BlobStore.
//
// Searcher is safe for concurrent use.
type Searcher struct {
	store blobstore.BlobStore
	opts  options

	mu       sync.RWMutex
	segments []*loadedSegment
	closed   bool
}

type loadedSegment struct {
	name  string
	seg   *segment.Segment
	bytes int64
}

// Stats describes the loaded segments.
type Stats struct {
	Segments    int
	Docs        int
	DeletedDocs int
	MemoryBytes int64
}

// Open loads every segment stored under the segment prefix of store,
// together with its tombstones.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Searcher, error) {
	s := &Searcher{
		store: store,
		opts:  applyOptions(optFns),
	}
	if err := validateWindowSize(s.opts.windowSize); err != nil {
		return nil, err
	}

	names, err := store.List(ctx, s.opts.segmentPrefix)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	names = slices.DeleteFunc(names, func(n string) bool {
		return !strings.HasSuffix(n, segmentSuffix)
	})

	loaded := make([]*loadedSegment, len(names))
	g, gctx := errgroup.WithContext(ctx)
	if s.opts.concurrency > 0 {
		g.SetLimit(s.opts.concurrency)
	}
	for i, blobName := range names {
		g.Go(func() error {
			ls, err := s.load(gctx, blobName)
			if err != nil {
				return err
			}
			loaded[i] = ls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, ls := range loaded {
			if ls != nil {
				s.opts.resource.ReleaseMemory(ls.bytes)
			}
		}
		return nil, translateError(err)
	}

	s.segments = loaded
	return s, nil
}

func (s *Searcher) load(ctx context.Context, blobName string) (ls *loadedSegment, err error) {
	start := time.Now()
	name := strings.TrimSuffix(strings.TrimPrefix(blobName, s.opts.segmentPrefix), segmentSuffix)
	var size int64
	docs := 0
	defer func() {
		s.opts.logger.LogSegmentLoad(ctx, name, size, docs, err)
		s.opts.metricsCollector.RecordSegmentLoad(size, time.Since(start), err)
	}()

	data, err := s.readBlob(ctx, blobName)
	if err != nil {
		return nil, fmt.Errorf("load segment %q: %w", name, err)
	}
	size = int64(len(data))

	if err := s.opts.resource.AcquireMemory(size); err != nil {
		return nil, fmt.Errorf("load segment %q: %w", name, err)
	}
	seg, err := segment.Decode(data)
	if err != nil {
		s.opts.resource.ReleaseMemory(size)
		return nil, fmt.Errorf("load segment %q: %w", name, err)
	}

	tomb, err := blobstore.ReadAll(ctx, s.store, s.tombstoneBlob(name))
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
	case err != nil:
		s.opts.resource.ReleaseMemory(size)
		return nil, fmt.Errorf("load tombstones of %q: %w", name, err)
	default:
		if err := seg.ApplyTombstones(tomb); err != nil {
			s.opts.resource.ReleaseMemory(size)
			return nil, fmt.Errorf("load tombstones of %q: %w", name, err)
		}
	}

	docs = seg.NumDocs()
	return &loadedSegment{name: name, seg: seg, bytes: size}, nil
}

// readBlob reads a whole blob through the IO rate limiter.
func (s *Searcher) readBlob(ctx context.Context, name string) ([]byte, error) {
	blob, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	r := resource.NewRateLimitedReader(ctx, blobstore.NewReader(ctx, blob), s.opts.resource)
	data := make([]byte, blob.Size())
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Searcher) segmentBlob(name string) string {
	return s.opts.segmentPrefix + name + segmentSuffix
}

func (s *Searcher) tombstoneBlob(name string) string {
	return s.opts.segmentPrefix + name + tombstoneSuffix
}

// Write builds a segment from docs and stores it as name.
// It does not check primary keys against other segments; use
// (*Searcher).Add for that.
func Write(ctx context.Context, store blobstore.BlobStore, name string, docs []model.Document, optFns ...Option) error {
	o := applyOptions(optFns)
	_, _, err := writeSegment(ctx, store, &o, name, docs, false)
	return err
}

// writeSegment encodes docs and stores the blob. With reserve set the
// encoded size is acquired from the resource controller before the Put
// and released again if the Put fails.
func writeSegment(ctx context.Context, store blobstore.BlobStore, o *options, name string, docs []model.Document, reserve bool) (seg *segment.Segment, size int, err error) {
	defer func() {
		o.logger.LogWrite(ctx, name, len(docs), size, err)
	}()

	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidSegmentName, name)
	}

	b := segment.NewBuilder(name, o.analyzer)
	for _, doc := range docs {
		if err := b.Add(doc); err != nil {
			return nil, 0, translateError(fmt.Errorf("add pk %d: %w", doc.PK, err))
		}
	}
	seg = b.Build()

	var buf bytes.Buffer
	if err := seg.Encode(resource.NewRateLimitedWriter(ctx, &buf, o.resource), o.codec, o.compression); err != nil {
		return nil, 0, fmt.Errorf("encode segment %q: %w", name, err)
	}
	size = buf.Len()

	if reserve {
		if err := o.resource.AcquireMemory(int64(size)); err != nil {
			return nil, 0, err
		}
	}
	if err := store.Put(ctx, o.segmentPrefix+name+segmentSuffix, buf.Bytes()); err != nil {
		if reserve {
			o.resource.ReleaseMemory(int64(size))
		}
		return nil, 0, fmt.Errorf("put segment %q: %w", name, err)
	}
	return seg, size, nil
}

// Add writes docs as a new segment called name and makes it searchable.
// Primary keys that are live in another segment are rejected.
func (s *Searcher) Add(ctx context.Context, name string, docs []model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	for _, ls := range s.segments {
		if ls.name == name {
			return fmt.Errorf("%w: %q", ErrSegmentExists, name)
		}
		for _, doc := range docs {
			if ls.seg.IsLive(doc.PK) {
				return fmt.Errorf("%w: pk %d is live in segment %q", ErrDuplicatePK, doc.PK, ls.name)
			}
		}
	}

	seg, size, err := writeSegment(ctx, s.store, &s.opts, name, docs, true)
	if err != nil {
		return err
	}
	s.segments = append(s.segments, &loadedSegment{name: name, seg: seg, bytes: int64(size)})
	return nil
}

// Delete marks pk as deleted and persists the tombstones of its segment.
func (s *Searcher) Delete(ctx context.Context, pk model.PrimaryKey) (err error) {
	defer func() {
		s.opts.logger.LogDelete(ctx, uint64(pk), err)
		s.opts.metricsCollector.RecordDelete(err)
	}()

	// tombstone writes of one segment must not reorder
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	for _, ls := range s.segments {
		if !ls.seg.IsLive(pk) {
			continue
		}
		// the row stays live in memory until its tombstone is stored
		tomb, err := ls.seg.TombstonesWith(pk)
		if err != nil {
			return translateError(err)
		}
		if err := s.store.Put(ctx, s.tombstoneBlob(ls.name), tomb); err != nil {
			return fmt.Errorf("put tombstones of %q: %w", ls.name, err)
		}
		return translateError(ls.seg.Delete(pk))
	}
	return fmt.Errorf("%w: pk %d", ErrNotFound, pk)
}

// Get returns the stored vector of a live document, or nil if it has none.
func (s *Searcher) Get(pk model.PrimaryKey) ([]float32, error) {
	segs, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	for _, ls := range segs {
		if !ls.seg.IsLive(pk) {
			continue
		}
		row, _ := ls.seg.Row(pk)
		return slices.Clone(ls.seg.Vector(row)), nil
	}
	return nil, fmt.Errorf("%w: pk %d", ErrNotFound, pk)
}

// Stats returns statistics of the loaded segments.
func (s *Searcher) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Segments: len(s.segments)}
	for _, ls := range s.segments {
		st.Docs += ls.seg.NumDocs()
		st.DeletedDocs += ls.seg.DeletedCount()
		st.MemoryBytes += ls.bytes
	}
	return st
}

func (s *Searcher) snapshot() ([]*loadedSegment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return slices.Clone(s.segments), nil
}

// Search runs q over every segment and returns up to q.K fused hits,
// best first.
func (s *Searcher) Search(ctx context.Context, q HybridQuery) ([]model.Hit, error) {
	start := time.Now()
	hits, err := s.search(ctx, &q)
	elapsed := time.Since(start)
	s.opts.logger.LogSearch(ctx, len(q.SubQueries), q.K, len(hits), elapsed, err)
	s.opts.metricsCollector.RecordSearch(len(q.SubQueries), len(hits), elapsed, err)
	return hits, err
}

func (s *Searcher) search(ctx context.Context, q *HybridQuery) ([]model.Hit, error) {
	fopts, err := q.validate(s.opts.fusion)
	if err != nil {
		return nil, err
	}
	segs, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	subs := q.withDefaults()

	perSegment := make([][][]fusion.Scored, len(segs))
	err = s.forEachSegment(ctx, segs, func(ctx context.Context, i int, ls *loadedSegment) error {
		c := hybrid.NewTopDocsCollector(len(subs), q.K)
		if err := s.scoreSegment(ctx, ls, subs, q.Filter, c); err != nil {
			return err
		}
		top := c.TopDocs()
		lists := make([][]fusion.Scored, len(top))
		for j, docs := range top {
			lists[j] = make([]fusion.Scored, len(docs))
			for n, d := range docs {
				lists[j][n] = fusion.Scored{ID: hitID(i, d.Doc), Score: d.Score}
			}
		}
		perSegment[i] = lists
		return nil
	})
	if err != nil {
		return nil, err
	}

	lists := mergeTopK(perSegment, len(subs), q.K)
	fused, err := fusion.Fuse(lists, fopts)
	if err != nil {
		return nil, translateError(err)
	}
	if len(fused) > q.K {
		fused = fused[:q.K]
	}

	hits := make([]model.Hit, len(fused))
	for n, r := range fused {
		ls := segs[r.ID>>32]
		row := model.RowID(uint32(r.ID))
		hits[n] = model.Hit{
			PK:             ls.seg.PK(row),
			Segment:        ls.name,
			Row:            row,
			Score:          r.Score,
			SubQueryScores: r.Scores,
		}
	}
	return hits, nil
}

// Count returns the number of live documents matching at least one
// sub-query of q. K and Fusion are ignored.
func (s *Searcher) Count(ctx context.Context, q HybridQuery) (int, error) {
	if q.K <= 0 {
		q.K = 1
	}
	if _, err := q.validate(s.opts.fusion); err != nil {
		return 0, err
	}
	segs, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	subs := q.withDefaults()

	counts := make([]int, len(segs))
	err = s.forEachSegment(ctx, segs, func(ctx context.Context, i int, ls *loadedSegment) error {
		c := hybrid.NewCountCollector()
		if err := s.scoreSegment(ctx, ls, subs, q.Filter, c); err != nil {
			return err
		}
		counts[i] = c.Count()
		return nil
	})
	if err != nil {
		return 0, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// forEachSegment runs fn for every segment, bounded by the concurrency
// option and the resource controller.
func (s *Searcher) forEachSegment(ctx context.Context, segs []*loadedSegment, fn func(ctx context.Context, i int, ls *loadedSegment) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if s.opts.concurrency > 0 {
		g.SetLimit(s.opts.concurrency)
	}
	for i, ls := range segs {
		g.Go(func() error {
			if err := s.opts.resource.AcquireSearch(gctx); err != nil {
				return err
			}
			defer s.opts.resource.ReleaseSearch()
			return fn(gctx, i, ls)
		})
	}
	return g.Wait()
}

// scoreSegment drives one BulkScorer over ls. Each call owns its scorer,
// score vector and stream.
func (s *Searcher) scoreSegment(ctx context.Context, ls *loadedSegment, subs []SubQuery, filter *Filter, c hybrid.Collector) error {
	seg := ls.seg
	accept := seg.LiveDocs()
	if filter != nil {
		accept.And(query.TagBitmap(seg, filter.Tags, filter.MatchAll))
	}

	scorers := make([]query.Scorer, len(subs))
	for i, sq := range subs {
		sc, err := sq.scorer(seg, &s.opts, accept)
		if err != nil {
			return fmt.Errorf("segment %q: %w", ls.name, err)
		}
		scorers[i] = sc
	}

	bs, err := hybrid.NewBulkScorer(scorers, seg.NumDocs(),
		hybrid.WithWindowSize(s.opts.windowSize),
		hybrid.WithAcceptDocs(accept),
	)
	if err != nil {
		return translateError(err)
	}
	err = bs.Score(ctx, c, 0, seg.NumDocs())
	stats := bs.Stats()
	s.opts.metricsCollector.RecordScan(stats.Windows, stats.Matches)
	return err
}

// hitID packs a segment index and a row into a fusion ID.
func hitID(segIdx, row int) uint64 {
	return uint64(segIdx)<<32 | uint64(uint32(row))
}

// mergeTopK merges the per-segment lists of every sub-query into a single
// list of at most k entries, best first with ties on the lower ID.
func mergeTopK(perSegment [][][]fusion.Scored, numSubQueries, k int) [][]fusion.Scored {
	lists := make([][]fusion.Scored, numSubQueries)
	for j := range lists {
		var merged []fusion.Scored
		for _, segLists := range perSegment {
			merged = append(merged, segLists[j]...)
		}
		slices.SortFunc(merged, func(a, b fusion.Scored) int {
			switch {
			case a.Score > b.Score:
				return -1
			case a.Score < b.Score:
				return 1
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			}
			return 0
		})
		if len(merged) > k {
			merged = merged[:k]
		}
		lists[j] = merged
	}
	return lists
}

func validateWindowSize(size int) error {
	if size < 64 || size&(size-1) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, size)
	}
	return nil
}
