// Package boundedwaitgroup provides a sync.WaitGroup that also bounds
// the number of concurrently-running goroutines, used by
// pkg/workerpool to cap per-shard work at the configured worker count.
package boundedwaitgroup

import "sync"

// BoundedWaitGroup behaves like a sync.WaitGroup, except that Add
// blocks once capacity callers are outstanding, until a prior one
// calls Done.
type BoundedWaitGroup struct {
	wg sync.WaitGroup
	ch chan struct{}
}

// New returns a BoundedWaitGroup that allows at most capacity
// concurrently-outstanding Add calls. Panics if capacity is 0.
func New(capacity uint) BoundedWaitGroup {
	if capacity == 0 {
		panic("boundedwaitgroup: capacity must be greater than 0")
	}
	return BoundedWaitGroup{ch: make(chan struct{}, capacity)}
}

// Add blocks until a slot is available, then reserves it.
func (bg *BoundedWaitGroup) Add(delta int) {
	for i := 0; i < delta; i++ {
		bg.ch <- struct{}{}
	}
	bg.wg.Add(delta)
}

// Done releases a slot and marks one unit of work complete.
func (bg *BoundedWaitGroup) Done() {
	<-bg.ch
	bg.wg.Done()
}

// Wait blocks until every outstanding Add has a matching Done.
func (bg *BoundedWaitGroup) Wait() {
	bg.wg.Wait()
}
