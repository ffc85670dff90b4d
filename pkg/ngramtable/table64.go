package ngramtable

import "go.uber.org/atomic"

type table64 struct {
	lanes []atomic.Uint64
	seeds []uint64
}

func newTable64(l int, seeds []uint64, initial uint64) *table64 {
	t := &table64{
		lanes: make([]atomic.Uint64, l),
		seeds: seeds,
	}
	if initial != 0 {
		parallelFill(l, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				t.lanes[i].Store(initial)
			}
		})
	}
	return t
}

func (t *table64) indices(key Key, out []uint64) {
	key.hashes(t.seeds, out)
	for i, h := range out {
		out[i] = h % uint64(len(t.lanes))
	}
}

func (t *table64) Increment(key Key, delta uint64) uint64 {
	idx := make([]uint64, len(t.seeds))
	t.indices(key, idx)
	min := uint64(math64Max)
	for _, i := range idx {
		v := saturatingAddU64(&t.lanes[i], delta)
		if v < min {
			min = v
		}
	}
	return min
}

func (t *table64) Decrement(key Key, delta uint64) {
	idx := make([]uint64, len(t.seeds))
	t.indices(key, idx)
	for _, i := range idx {
		saturatingSubU64(&t.lanes[i], delta)
	}
}

func (t *table64) MaxCount(key Key) uint64 {
	idx := make([]uint64, len(t.seeds))
	t.indices(key, idx)
	var max uint64
	for _, i := range idx {
		if v := t.lanes[i].Load(); v > max {
			max = v
		}
	}
	return max
}

func (t *table64) Nonzero() float64 {
	count := 0
	for i := range t.lanes {
		if t.lanes[i].Load() != 0 {
			count++
		}
	}
	return nonzeroEstimate(count, len(t.lanes), len(t.seeds))
}

func (t *table64) Len() int               { return len(t.lanes) }
func (t *table64) Hashes() int            { return len(t.seeds) }
func (t *table64) Saturated(c uint64) bool { return c == math64Max }

const math64Max = ^uint64(0)

// saturatingAddU64 atomically adds delta to *lane, pinning at the
// type's maximum instead of wrapping, and returns the new value.
func saturatingAddU64(lane *atomic.Uint64, delta uint64) uint64 {
	for {
		old := lane.Load()
		next := old + delta
		if next < old { // overflow
			next = math64Max
		}
		if next == old {
			return old
		}
		if lane.CAS(old, next) {
			return next
		}
	}
}

// saturatingSubU64 atomically subtracts delta from *lane, pinning at
// zero instead of wrapping.
func saturatingSubU64(lane *atomic.Uint64, delta uint64) {
	for {
		old := lane.Load()
		var next uint64
		if delta > old {
			next = 0
		} else {
			next = old - delta
		}
		if next == old {
			return
		}
		if lane.CAS(old, next) {
			return
		}
	}
}
