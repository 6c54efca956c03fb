package searcher

import "sort"

// ScoredDoc is a row with its score.
type ScoredDoc struct {
	Doc   int
	Score float32
}

// TopK keeps the K best ScoredDocs seen so far.
// Higher scores are better; on equal scores the lower doc wins.
//
// It is a value-based binary min-heap (worst item on top) and does NOT
// implement container/heap to avoid interface overhead.
type TopK struct {
	k     int
	items []ScoredDoc
}

// NewTopK creates a queue holding at most k items.
func NewTopK(k int) *TopK {
	if k < 0 {
		k = 0
	}
	return &TopK{
		k:     k,
		items: make([]ScoredDoc, 0, min(k, 1024)),
	}
}

// Reset clears the queue for reuse.
func (q *TopK) Reset() {
	q.items = q.items[:0]
}

// Len returns the number of items in the queue.
func (q *TopK) Len() int {
	return len(q.items)
}

// Cap returns K.
func (q *TopK) Cap() int {
	return q.k
}

// Full reports whether the queue holds K items.
func (q *TopK) Full() bool {
	return len(q.items) >= q.k
}

// Min returns the worst item kept so far.
func (q *TopK) Min() (ScoredDoc, bool) {
	if len(q.items) == 0 {
		return ScoredDoc{}, false
	}
	return q.items[0], true
}

// worse reports whether a ranks below b.
func worse(a, b ScoredDoc) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Doc > b.Doc
}

// Push offers an item. It returns true if the item was kept.
// If the queue is full and the item is worse than the top, it is skipped;
// if it is better, the top is replaced.
func (q *TopK) Push(doc int, score float32) bool {
	item := ScoredDoc{Doc: doc, Score: score}
	if len(q.items) < q.k {
		q.items = append(q.items, item)
		q.siftUp(len(q.items) - 1)
		return true
	}
	if q.k == 0 || !worse(q.items[0], item) {
		return false
	}
	q.items[0] = item
	q.siftDown(0)
	return true
}

// Pop removes and returns the worst item.
func (q *TopK) Pop() (ScoredDoc, bool) {
	n := len(q.items)
	if n == 0 {
		return ScoredDoc{}, false
	}
	item := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]
	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return item, true
}

// Sorted returns the kept items best first. The queue is left empty.
func (q *TopK) Sorted() []ScoredDoc {
	out := make([]ScoredDoc, len(q.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = q.Pop()
	}
	return out
}

// DocOrder returns the kept items in ascending doc order. The queue is
// left empty.
func (q *TopK) DocOrder() []ScoredDoc {
	out := append([]ScoredDoc(nil), q.items...)
	q.items = q.items[:0]
	sort.Slice(out, func(i, j int) bool { return out[i].Doc < out[j].Doc })
	return out
}

// siftUp moves the element at index i up the heap until the heap invariant is restored.
func (q *TopK) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(q.items[i], q.items[parent]) {
			break
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

// siftDown moves the element at index i down the heap until the heap invariant is restored.
func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		right := left + 1
		if right < n && worse(q.items[right], q.items[left]) {
			child = right
		}
		if !worse(q.items[child], q.items[i]) {
			break
		}
		q.items[i], q.items[child] = q.items[child], q.items[i]
		i = child
	}
}
