// Package topk implements a bounded min-heap of (ngram, count) pairs
// with a lock-free watermark for admission filtering, used for both
// top-K (direct counts) and bottom-K (inverted counts) selection.
package topk

import (
	"container/heap"
	"sort"

	"go.uber.org/atomic"
)

// Entry is one candidate ngram and its count (or, for a bottom-K
// heap, its inverse count).
type Entry struct {
	Tokens []string
	Count  uint64
}

// Heap is a capacity-K min-heap keyed on Count, with an atomic mirror
// of the root's count published for lock-free admission tests from
// other goroutines. The heap body itself is only ever mutated by its
// owner (a single worker, or the main goroutine during merge).
type Heap struct {
	capacity int
	entries  entryHeap
	min      atomic.Uint64
}

// New returns an empty heap with the given capacity. Capacity must be
// greater than 0.
func New(capacity int) *Heap {
	h := &Heap{capacity: capacity}
	heap.Init(&h.entries)
	return h
}

// MinCount returns the atomic watermark: the current root count once
// the heap is full, or 0 before it fills. Safe to call concurrently
// with Insert from the heap's owner.
func (h *Heap) MinCount() *atomic.Uint64 {
	return &h.min
}

// Len reports the current number of entries (<= capacity).
func (h *Heap) Len() int { return h.entries.Len() }

// Insert admits (tokens, count): if the heap isn't full, push
// unconditionally; otherwise only replace the root if count exceeds
// it. Insert is not safe for concurrent callers — it is always
// invoked by the heap's single owner.
func (h *Heap) Insert(tokens []string, count uint64) {
	if h.entries.Len() < h.capacity {
		heap.Push(&h.entries, Entry{Tokens: tokens, Count: count})
		if h.entries.Len() == h.capacity {
			h.min.Store(h.entries[0].Count)
		}
		return
	}
	if count <= h.entries[0].Count {
		return
	}
	h.entries[0] = Entry{Tokens: tokens, Count: count}
	heap.Fix(&h.entries, 0)
	h.min.Store(h.entries[0].Count)
}

// Drain empties the heap into a slice sorted by count descending,
// keeping only the highest count on duplicate ngrams, and resets the
// heap to empty with its watermark cleared.
func (h *Heap) Drain() []Entry {
	best := make(map[string]Entry, h.entries.Len())
	for _, e := range h.entries {
		key := joinTokens(e.Tokens)
		if cur, ok := best[key]; !ok || e.Count > cur.Count {
			best[key] = e
		}
	}
	out := make([]Entry, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	h.entries = h.entries[:0]
	h.min.Store(0)
	return out
}

func joinTokens(tokens []string) string {
	// A length-prefix join, same shape as ngramtable.Key.encode, so
	// dedup never confuses ["ab","c"] with ["a","bc"].
	n := 0
	for _, t := range tokens {
		n += len(t) + 1
	}
	buf := make([]byte, 0, n)
	for _, t := range tokens {
		buf = append(buf, byte(len(t)))
		buf = append(buf, t...)
	}
	return string(buf)
}

// entryHeap implements container/heap.Interface as a min-heap on Count.
type entryHeap []Entry

func (e entryHeap) Len() int            { return len(e) }
func (e entryHeap) Less(i, j int) bool  { return e[i].Count < e[j].Count }
func (e entryHeap) Swap(i, j int)       { e[i], e[j] = e[j], e[i] }
func (e *entryHeap) Push(x interface{}) { *e = append(*e, x.(Entry)) }
func (e *entryHeap) Pop() interface{} {
	old := *e
	n := len(old)
	item := old[n-1]
	*e = old[:n-1]
	return item
}
