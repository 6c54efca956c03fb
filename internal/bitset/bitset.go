package bitset

import (
	"math/bits"
)

const (
	wordShift = 6
	wordBits  = 1 << wordShift
	wordMask  = wordBits - 1
)

// FixedBitSet is a non-thread-safe bitset with a fixed number of bits.
// It tracks dirty words to allow O(K) reset where K is the number of
// words that received at least one Set since the last reset.
type FixedBitSet struct {
	words []uint64
	dirty []int
	size  int
}

// NewFixed creates a FixedBitSet able to hold numBits bits.
func NewFixed(numBits int) *FixedBitSet {
	if numBits < 0 {
		numBits = 0
	}
	return &FixedBitSet{
		words: make([]uint64, (numBits+wordMask)>>wordShift),
		dirty: make([]int, 0, 16),
		size:  numBits,
	}
}

// Len returns the size of the bitset in bits.
func (b *FixedBitSet) Len() int {
	return b.size
}

// Set sets the bit at index i. Out-of-range indexes are ignored.
func (b *FixedBitSet) Set(i int) {
	if i < 0 || i >= b.size {
		return
	}
	wordIdx := i >> wordShift
	if b.words[wordIdx] == 0 {
		b.dirty = append(b.dirty, wordIdx)
	}
	b.words[wordIdx] |= uint64(1) << (uint(i) & wordMask)
}

// Clear clears the bit at index i.
func (b *FixedBitSet) Clear(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.words[i>>wordShift] &^= uint64(1) << (uint(i) & wordMask)
}

// Test returns true if the bit at index i is set.
func (b *FixedBitSet) Test(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.words[i>>wordShift]&(uint64(1)<<(uint(i)&wordMask)) != 0
}

// Cardinality returns the number of set bits.
func (b *FixedBitSet) Cardinality() int {
	count := 0
	for _, w := range b.words {
		if w != 0 {
			count += bits.OnesCount64(w)
		}
	}
	return count
}

// NextSetBit returns the index of the next set bit starting from i (inclusive).
// Returns -1 if no bit is set at or after i.
func (b *FixedBitSet) NextSetBit(i int) int {
	if i < 0 {
		i = 0
	}
	if i >= b.size {
		return -1
	}

	wordIdx := i >> wordShift
	// Mask out bits before i
	w := b.words[wordIdx] & (^uint64(0) << (uint(i) & wordMask))
	for {
		if w != 0 {
			return wordIdx<<wordShift | bits.TrailingZeros64(w)
		}
		wordIdx++
		if wordIdx >= len(b.words) {
			return -1
		}
		w = b.words[wordIdx]
	}
}

// ClearAll clears every bit. Only dirty words are touched.
func (b *FixedBitSet) ClearAll() {
	for _, wordIdx := range b.dirty {
		b.words[wordIdx] = 0
	}
	b.dirty = b.dirty[:0]
}

// Words returns the backing words.
// The slice is owned by the bitset; callers must treat it as read-only.
func (b *FixedBitSet) Words() []uint64 {
	return b.words
}
