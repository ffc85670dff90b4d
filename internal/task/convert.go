package task

import (
	"strings"

	"github.com/wimbd-go/wimbd/pkg/topk"
)

// entriesFromHeap drains h and converts its entries to the task
// package's output Entry shape, assigning 1-based ranks in the
// already-descending order Heap.Drain returns.
func entriesFromHeap(h *topk.Heap) []Entry {
	drained := h.Drain()
	out := make([]Entry, len(drained))
	for i, d := range drained {
		out[i] = Entry{
			Tokens: d.Tokens,
			String: strings.Join(d.Tokens, " "),
			Count:  d.Count,
			Rank:   i + 1,
		}
	}
	return out
}
