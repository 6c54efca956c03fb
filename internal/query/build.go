package query

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hybridscan/internal/segment"
	"github.com/hupe1980/hybridscan/lexical"
	"github.com/hupe1980/hybridscan/lexical/bm25"
)

// Match returns a BM25 scorer for the analyzed terms of text in field:
// a disjunction of one TermScorer per distinct term present in seg.
func Match(seg *segment.Segment, field, text string, analyzer lexical.Analyzer, sim bm25.Similarity, boost float64) Scorer {
	f := seg.Field(field)
	if f == nil {
		return Empty()
	}
	if analyzer == nil {
		analyzer = lexical.StandardAnalyzer{}
	}

	var children []Scorer
	for _, t := range lexical.UniqueTerms(analyzer, text) {
		if p, ok := f.Terms[t]; ok {
			children = append(children, NewTermScorer(f, p, sim, boost))
		}
	}
	return NewDisjunction(children...)
}

// Term returns a BM25 scorer for an exact, unanalyzed term in field.
func Term(seg *segment.Segment, field, term string, sim bm25.Similarity, boost float64) Scorer {
	f := seg.Field(field)
	if f == nil {
		return Empty()
	}
	p, ok := f.Terms[term]
	if !ok {
		return Empty()
	}
	return NewTermScorer(f, p, sim, boost)
}

// TagBitmap returns the rows carrying any (or, with matchAll, every) tag.
func TagBitmap(seg *segment.Segment, tags []string, matchAll bool) *roaring.Bitmap {
	if len(tags) == 0 {
		return roaring.New()
	}
	bitmaps := make([]*roaring.Bitmap, 0, len(tags))
	for _, tag := range tags {
		bm := seg.Tag(tag)
		if bm == nil {
			if matchAll {
				return roaring.New()
			}
			continue
		}
		bitmaps = append(bitmaps, bm)
	}
	if len(bitmaps) == 0 {
		return roaring.New()
	}
	if matchAll {
		return roaring.FastAnd(bitmaps...)
	}
	return roaring.FastOr(bitmaps...)
}

// Tags returns a constant-score scorer over TagBitmap.
func Tags(seg *segment.Segment, tags []string, matchAll bool, score float32) Scorer {
	return NewBitmapScorer(TagBitmap(seg, tags, matchAll), score)
}
