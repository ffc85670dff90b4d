package ngramtable

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Width selects the bit-width of a CountingTable's lanes. Tasks pick
// one width at construction time and never mix widths within a run.
type Width int

const (
	Width8 Width = 8
	Width32 Width = 32
	Width64 Width = 64
)

func (w Width) bytes() int {
	return int(w) / 8
}

// Max returns the lane width's maximum representable value (type_max),
// used by bottom-K drivers to invert counts.
func (w Width) Max() uint64 {
	switch w {
	case Width8:
		return uint64(math8Max)
	case Width32:
		return uint64(math32Max)
	default:
		return math64Max
	}
}

// Table is a fixed-size array of atomic counter lanes addressed by k
// independent hashes of an n-gram key. It is created once, shared by
// every worker, and never resized or cleared during a run.
type Table interface {
	// Increment adds delta to each of the key's k lanes, saturating at
	// the lane width's maximum, and returns the minimum of the new
	// lane values (the conservative-update / min-count estimate).
	Increment(key Key, delta uint64) uint64

	// Decrement subtracts delta from each of the key's k lanes,
	// saturating at zero.
	Decrement(key Key, delta uint64)

	// MaxCount returns the maximum of the key's k lane values.
	MaxCount(key Key) uint64

	// Nonzero estimates the number of distinct keys inserted so far
	// using the standard Bloom-filter cardinality correction.
	Nonzero() float64

	// Len returns the number of lanes.
	Len() int

	// Hashes returns k, the number of hash functions in use.
	Hashes() int

	// Saturated reports whether the given count equals the lane
	// width's maximum value, i.e. whether it may be an undercount.
	Saturated(count uint64) bool
}

// Config parameterizes New.
type Config struct {
	// ByteBudget is the total memory budget for the lane array; the
	// lane count L is derived as ByteBudget / (Width/8).
	ByteBudget uint64
	K          int
	Width      Width
	// Seed seeds the k hash sub-keys deterministically. If nil, seeds
	// are drawn from system entropy.
	Seed *uint64
	// Initial is the value every lane is filled with at construction
	// (0 for top-K/unique counting, type-max for bottom-K inversion).
	Initial uint64
}

// New derives the lane count from the byte budget and width, draws
// or derives the k hash seeds, and fills every lane with the initial
// value using a parallel fill across GOMAXPROCS workers.
func New(cfg Config) (Table, error) {
	if cfg.K <= 0 {
		return nil, errors.New("k (number of hash functions) must be greater than 0")
	}
	if cfg.ByteBudget == 0 {
		return nil, errors.New("byte budget must be greater than 0")
	}

	l := int(cfg.ByteBudget / uint64(cfg.Width.bytes()))
	if l <= 0 {
		return nil, errors.Errorf("byte budget %d is too small for a single lane of width %d", cfg.ByteBudget, cfg.Width)
	}

	seeds, err := deriveSeeds(cfg.K, cfg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "deriving hash seeds")
	}

	switch cfg.Width {
	case Width8:
		return newTable8(l, seeds, uint8(cfg.Initial)), nil
	case Width32:
		return newTable32(l, seeds, uint32(cfg.Initial)), nil
	case Width64:
		return newTable64(l, seeds, cfg.Initial), nil
	default:
		return nil, errors.Errorf("unsupported lane width %d", cfg.Width)
	}
}

// deriveSeeds draws k 64-bit seeds. With an explicit seed the draw is
// deterministic (same seed, same k, same derived sub-seeds); without
// one, seeds come from crypto/rand.
func deriveSeeds(k int, seed *uint64) ([]uint64, error) {
	seeds := make([]uint64, k)
	if seed != nil {
		// Deterministic per-round sub-keys derived from the base seed
		// via a fixed odd multiplier (splitmix64-style), so distinct
		// rounds never collide for a given base seed.
		s := *seed
		for j := range seeds {
			s += 0x9E3779B97F4A7C15
			z := s
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			z = z ^ (z >> 31)
			seeds[j] = z
		}
		return seeds, nil
	}
	var buf [8]byte
	for j := range seeds {
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, err
		}
		seeds[j] = binary.LittleEndian.Uint64(buf[:])
	}
	return seeds, nil
}

// nonzeroEstimate applies the standard Bloom-filter cardinality
// correction n_hat = -(L/k) * ln(1 - nonzero/L).
func nonzeroEstimate(nonzero, l, k int) float64 {
	if nonzero <= 0 {
		return 0
	}
	if nonzero >= l {
		nonzero = l - 1
	}
	frac := float64(nonzero) / float64(l)
	return -(float64(l) / float64(k)) * math.Log(1-frac)
}

// parallelFill fills data[0:n] with value using up to GOMAXPROCS
// concurrent workers, each owning a disjoint contiguous range.
func parallelFill(n int, fill func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fill(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fill(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
