package merger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/wimbd-go/wimbd/pkg/topk"
)

func TestDrainFoldsEveryEntryIntoGlobalHeap(t *testing.T) {
	m := New(16)
	global := topk.New(3)
	earlyExit := atomic.NewBool(false)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Send(topk.Entry{Tokens: []string{"a"}, Count: 1})
		m.Send(topk.Entry{Tokens: []string{"b"}, Count: 2})
		m.Send(topk.Entry{Tokens: []string{"c"}, Count: 3})
		m.Close()
	}()
	wg.Wait()

	m.Drain(global, earlyExit)

	entries := global.Drain()
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(3), entries[0].Count)
}

func TestDrainStopsOnEarlyExit(t *testing.T) {
	m := New(16)
	global := topk.New(3)
	earlyExit := atomic.NewBool(true)

	// Channel never closed: Drain must return via the early-exit path
	// rather than blocking forever.
	m.Drain(global, earlyExit)
}
