// Package pipeline implements the per-record n-gram pipeline:
// tokenization, a sliding-window n-gram extractor, and the
// task-specific handler that decides whether a window is admitted to
// a worker's local top-K/bottom-K heap.
package pipeline

import (
	"math/rand/v2"

	"go.uber.org/atomic"

	"github.com/wimbd-go/wimbd/pkg/ngramtable"
	"github.com/wimbd-go/wimbd/pkg/tokenize"
	"github.com/wimbd-go/wimbd/pkg/topk"
)

// Kind selects which of NgramPipeline's four task-specific handlers
// runs per window.
type Kind int

const (
	TopK Kind = iota
	BottomKPass1
	BottomKPass2
	Unique
)

// Options parameterizes a Pipeline.
type Options struct {
	N         int
	Kind      Kind
	Table     ngramtable.Table
	Width     ngramtable.Width
	LocalHeap *topk.Heap      // nil for BottomKPass1 and Unique
	Global    *atomic.Uint64  // global heap watermark (0 until it fills); nil when there is no global heap
	Threshold uint64          // task's numeric admission threshold
	PKeep     float64         // admission keep-probability in [0,1]; 1 means no thinning
	Rng       *rand.Rand // seeded source for PKeep thinning
}

// Pipeline extracts overlapping n-grams from tokenized text and
// drives them through the task-specific counting/admission handler.
type Pipeline struct {
	tok    tokenize.Tokenizer
	opts   Options
	window []string
}

// New constructs a Pipeline. opts.N must be > 0.
func New(tok tokenize.Tokenizer, opts Options) *Pipeline {
	return &Pipeline{tok: tok, opts: opts}
}

// Process tokenizes text and slides an n-length FIFO window across
// the resulting tokens, invoking the task handler each time the
// window fills.
func (p *Pipeline) Process(text string) {
	tokens := p.tok.Tokenize(text)
	p.window = p.window[:0]
	for _, t := range tokens {
		p.window = append(p.window, t)
		if len(p.window) < p.opts.N {
			continue
		}
		if len(p.window) > p.opts.N {
			p.window = p.window[len(p.window)-p.opts.N:]
		}
		key := make(ngramtable.Key, p.opts.N)
		copy(key, p.window)
		p.handle(key)
	}
}

func (p *Pipeline) handle(key ngramtable.Key) {
	switch p.opts.Kind {
	case TopK:
		count := p.opts.Table.Increment(key, 1)
		p.admit(key, count, p.opts.Threshold)
	case BottomKPass1:
		p.opts.Table.Decrement(key, 1)
	case BottomKPass2:
		inv := p.opts.Table.MaxCount(key)
		thresholdInv := p.opts.Width.Max() - p.opts.Threshold
		p.admit(key, inv, thresholdInv)
	case Unique:
		p.opts.Table.Increment(key, 1)
	}
}

// admit applies the admission test: count must exceed the task
// threshold and both the local and (if present) global watermark, and
// survive the optional p_keep thinning, which is applied only to
// admission — never to the counter update itself.
func (p *Pipeline) admit(key ngramtable.Key, count, threshold uint64) {
	if count <= threshold {
		return
	}
	if p.opts.LocalHeap != nil && p.opts.LocalHeap.Len() > 0 && count <= p.opts.LocalHeap.MinCount().Load() {
		return
	}
	if p.opts.Global != nil && count <= p.opts.Global.Load() {
		return
	}
	if p.opts.PKeep < 1.0 && p.opts.Rng != nil && p.opts.Rng.Float64() >= p.opts.PKeep {
		return
	}
	if p.opts.LocalHeap != nil {
		p.opts.LocalHeap.Insert(key.Clone(), count)
	}
}
