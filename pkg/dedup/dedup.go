// Package dedup implements the optional per-worker duplicate-line
// pre-filter enabled by --dedup-lines: an exact duplicate raw JSON
// line within the same shard is skipped before decoding.
package dedup

import (
	"github.com/cespare/xxhash/v2"
	"github.com/willf/bloom"
)

// LineFilter is a per-worker, per-shard Bloom filter over raw line
// hashes. It is a throughput optimization, not a correctness
// component — a false positive silently drops a line the same way a
// true duplicate would, which is acceptable only because this is
// opt-in.
type LineFilter struct {
	bf *bloom.BloomFilter
}

// NewLineFilter sizes a filter for expectedLines entries at the given
// false-positive rate using bloom.NewWithEstimates.
func NewLineFilter(expectedLines uint, falsePositiveRate float64) *LineFilter {
	return &LineFilter{bf: bloom.NewWithEstimates(expectedLines, falsePositiveRate)}
}

// SeenBefore hashes line and reports whether an identical line was
// already observed by this filter, recording it either way.
func (f *LineFilter) SeenBefore(line []byte) bool {
	h := xxhash.Sum64(line)
	key := make([]byte, 8)
	for i := 0; i < 8; i++ {
		key[i] = byte(h >> (8 * i))
	}
	if f.bf.Test(key) {
		return true
	}
	f.bf.Add(key)
	return false
}
