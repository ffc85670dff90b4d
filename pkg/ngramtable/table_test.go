package ngramtable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(u uint64) *uint64 { return &u }

func TestIncrementNeverUndercounts(t *testing.T) {
	for _, w := range []Width{Width8, Width32, Width64} {
		tbl, err := New(Config{ByteBudget: 1 << 16, K: 4, Width: w, Seed: seed(7)})
		require.NoError(t, err)

		key := Key{"a", "b"}
		true_count := uint64(0)
		for i := 0; i < 50; i++ {
			got := tbl.Increment(key, 1)
			true_count++
			assert.GreaterOrEqualf(t, got, true_count, "width %d: increment must never undercount", w)
		}
	}
}

func TestDecrementInversion(t *testing.T) {
	for _, w := range []Width{Width8, Width32, Width64} {
		var max uint64
		switch w {
		case Width8:
			max = uint64(math8Max)
		case Width32:
			max = uint64(math32Max)
		case Width64:
			max = math64Max
		}

		tbl, err := New(Config{ByteBudget: 1 << 16, K: 4, Width: w, Seed: seed(7), Initial: max})
		require.NoError(t, err)

		key := Key{"x", "y"}
		n := uint64(5)
		for i := uint64(0); i < n; i++ {
			tbl.Decrement(key, 1)
		}
		assert.Equal(t, max-n, tbl.MaxCount(key))
	}
}

func TestSaturationPins(t *testing.T) {
	tbl, err := New(Config{ByteBudget: 256, K: 2, Width: Width8, Seed: seed(1)})
	require.NoError(t, err)

	key := Key{"only"}
	var last uint64
	for i := 0; i < 1000; i++ {
		last = tbl.Increment(key, 1)
	}
	assert.Equal(t, uint64(math8Max), last)
	assert.True(t, tbl.Saturated(last))
}

func TestConcurrentIncrementIsRaceFree(t *testing.T) {
	tbl, err := New(Config{ByteBudget: 1 << 16, K: 3, Width: Width32, Seed: seed(42)})
	require.NoError(t, err)

	key := Key{"shared"}
	const goroutines = 32
	const perGoroutine = 200

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				tbl.Increment(key, 1)
			}
		}()
	}
	wg.Wait()

	got := tbl.MaxCount(key)
	assert.GreaterOrEqual(t, got, uint64(goroutines*perGoroutine))
}

func TestNonzeroEstimateCloseToTrue(t *testing.T) {
	tbl, err := New(Config{ByteBudget: 1 << 20, K: 5, Width: Width8, Seed: seed(99)})
	require.NoError(t, err)

	const n = 2000 // load factor well under 0.1 for an L of ~1<<20
	for i := 0; i < n; i++ {
		tbl.Increment(Key{"tok", string(rune(i))}, 1)
	}

	got := tbl.Nonzero()
	assert.InEpsilonf(t, float64(n), got, 0.05, "nonzero estimate should be within ~5%% of %d, got %f", n, got)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{ByteBudget: 0, K: 1, Width: Width32})
	assert.Error(t, err)

	_, err = New(Config{ByteBudget: 1024, K: 0, Width: Width32})
	assert.Error(t, err)
}
