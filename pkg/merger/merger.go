// Package merger implements the bounded channel that carries drained
// worker-local heap entries to the main goroutine's global heap.
package merger

import (
	"time"

	"go.uber.org/atomic"

	"github.com/wimbd-go/wimbd/pkg/topk"
)

// DefaultCapacity is the channel capacity used unless overridden:
// roughly 500,000 entries before a producer blocks on a slow drain.
const DefaultCapacity = 500_000

// pollInterval is how long the drain loop waits on an empty channel
// before re-checking early_exit and the producers'-done signal.
const pollInterval = time.Second

// Merger owns the bounded channel producers (workers) send their
// drained local-heap entries into, and the single consumer loop
// (run on one goroutine started by the task driver) that folds them
// into a global heap.
type Merger struct {
	ch chan topk.Entry
}

// New constructs a Merger with the given channel capacity.
func New(capacity int) *Merger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Merger{ch: make(chan topk.Entry, capacity)}
}

// Send delivers one entry to the merger, blocking (applying
// backpressure to the caller) if the channel is full. It is safe to
// call from any number of worker goroutines concurrently.
func (m *Merger) Send(e topk.Entry) {
	m.ch <- e
}

// Close signals that no further entries will be sent. Call this only
// after every producer has finished (e.g. after the worker pool's
// Run has returned).
func (m *Merger) Close() {
	close(m.ch)
}

// Drain runs the single-consumer merge loop: read with a 1-second
// poll, insert into global, and stop either when the channel is
// closed and drained or when earlyExit is set. The task driver runs it
// on its own goroutine while workers run concurrently.
func (m *Merger) Drain(global *topk.Heap, earlyExit *atomic.Bool) {
	for {
		select {
		case e, ok := <-m.ch:
			if !ok {
				return
			}
			global.Insert(e.Tokens, e.Count)
		case <-time.After(pollInterval):
			if earlyExit != nil && earlyExit.Load() {
				return
			}
		}
	}
}
