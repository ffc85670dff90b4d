package ngramtable

import "go.uber.org/atomic"

type table32 struct {
	lanes []atomic.Uint32
	seeds []uint64
}

func newTable32(l int, seeds []uint64, initial uint32) *table32 {
	t := &table32{
		lanes: make([]atomic.Uint32, l),
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

func (t *table32) indices(key Key, out []uint64) {
	key.hashes(t.seeds, out)
	for i, h := range out {
		out[i] = h % uint64(len(t.lanes))
	}
}

func (t *table32) Increment(key Key, delta uint64) uint64 {
	idx := make([]uint64, len(t.seeds))
	t.indices(key, idx)
	min := uint64(math32Max)
	for _, i := range idx {
		v := saturatingAddU32(&t.lanes[i], uint32(delta))
		if uint64(v) < min {
			min = uint64(v)
		}
	}
	return min
}

func (t *table32) Decrement(key Key, delta uint64) {
	idx := make([]uint64, len(t.seeds))
	t.indices(key, idx)
	for _, i := range idx {
		saturatingSubU32(&t.lanes[i], uint32(delta))
	}
}

func (t *table32) MaxCount(key Key) uint64 {
	idx := make([]uint64, len(t.seeds))
	t.indices(key, idx)
	var max uint32
	for _, i := range idx {
		if v := t.lanes[i].Load(); v > max {
			max = v
		}
	}
	return uint64(max)
}

func (t *table32) Nonzero() float64 {
	count := 0
	for i := range t.lanes {
		if t.lanes[i].Load() != 0 {
			count++
		}
	}
	return nonzeroEstimate(count, len(t.lanes), len(t.seeds))
}

func (t *table32) Len() int    { return len(t.lanes) }
func (t *table32) Hashes() int { return len(t.seeds) }
func (t *table32) Saturated(c uint64) bool {
	return c == uint64(math32Max)
}

const math32Max = ^uint32(0)

func saturatingAddU32(lane *atomic.Uint32, delta uint32) uint32 {
	for {
		old := lane.Load()
		next := old + delta
		if next < old {
			next = math32Max
		}
		if next == old {
			return old
		}
		if lane.CAS(old, next) {
			return next
		}
	}
}

func saturatingSubU32(lane *atomic.Uint32, delta uint32) {
	for {
		old := lane.Load()
		var next uint32
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
