// Package ngramtable implements the counting-Bloom-filter-style hash
// table used to estimate n-gram frequencies within a fixed RAM budget.
package ngramtable

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Key is an ordered sequence of tokens treated as a single unit for
// hashing and equality. Two keys with the same tokens in the same
// order hash identically; token boundaries are part of the hashed
// encoding, so keys whose tokens concatenate to the same string but
// split differently hash differently.
type Key []string

// Clone returns a copy of the key's tokens, safe to retain after the
// caller's sliding window advances.
func (k Key) Clone() Key {
	out := make(Key, len(k))
	copy(out, k)
	return out
}

// encode produces a length-prefixed byte encoding of the key so that,
// e.g., ["ab", "c"] and ["a", "bc"] never collide.
func (k Key) encode() []byte {
	n := 0
	for _, tok := range k {
		n += 4 + len(tok)
	}
	buf := make([]byte, 0, n)
	var lenBuf [4]byte
	for _, tok := range k {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(tok)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, tok...)
	}
	return buf
}

// hashes returns the k lane-selecting hashes for this key, derived
// from a single general-purpose 64-bit streaming hash reseeded with a
// distinct per-seed salt for each of the k rounds.
func (k Key) hashes(seeds []uint64, out []uint64) {
	enc := k.encode()
	for j, seed := range seeds {
		out[j] = xxhash.Sum64(appendSeed(enc, seed))
	}
}

// appendSeed concatenates the encoded key with an 8-byte seed so each
// of the k rounds hashes a distinct byte string from the same tokens.
func appendSeed(enc []byte, seed uint64) []byte {
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], seed)
	buf := make([]byte, 0, len(enc)+8)
	buf = append(buf, enc...)
	buf = append(buf, seedBuf[:]...)
	return buf
}
