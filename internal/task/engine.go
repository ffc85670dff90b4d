// Package task implements the six counting-task drivers (topk, botk,
// unique, count, search, stats) as thin compositions over a shared
// per-file worker: open a shard, tokenize and slide its records
// through pkg/pipeline, and fold any local top-K/bottom-K heap into a
// shared global heap via pkg/merger.
package task

import (
	"bufio"
	"context"
	"io"
	"math/rand/v2"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/wimbd-go/wimbd/internal/config"
	"github.com/wimbd-go/wimbd/pkg/dedup"
	"github.com/wimbd-go/wimbd/pkg/merger"
	"github.com/wimbd-go/wimbd/pkg/ngramtable"
	"github.com/wimbd-go/wimbd/pkg/pipeline"
	"github.com/wimbd-go/wimbd/pkg/recordsource"
	"github.com/wimbd-go/wimbd/pkg/sizeparse"
	"github.com/wimbd-go/wimbd/pkg/tokenize"
	"github.com/wimbd-go/wimbd/pkg/topk"
	"github.com/wimbd-go/wimbd/pkg/workerpool"
)

// engine bundles the process-wide collaborators (logger, metrics, S3
// client, tokenizer) every task driver shares, built once per
// invocation from internal/config.Resolved.
type engine struct {
	resolved *config.Resolved
	tok      tokenize.Tokenizer
}

// newEngine builds the tokenizer named by vocabPath (empty means
// whitespace) and bundles it with the resolved collaborators.
func newEngine(resolved *config.Resolved, vocabPath string) (*engine, error) {
	if vocabPath == "" {
		return &engine{resolved: resolved, tok: tokenize.NewWhitespace()}, nil
	}
	words, err := loadVocab(vocabPath)
	if err != nil {
		return nil, err
	}
	tok, err := tokenize.NewPretrained(vocabPath, words)
	if err != nil {
		return nil, errors.Wrapf(err, "loading vocabulary %q", vocabPath)
	}
	return &engine{resolved: resolved, tok: tok}, nil
}

func loadVocab(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening vocabulary %q", path)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading vocabulary %q", path)
	}
	return words, nil
}

// resolvePaths expands every input argument into concrete shard
// paths, shuffles the combined list (deterministically when a seed is
// given, so FileLimit truncates the same way across runs with the
// same seed; from a randomly seeded generator otherwise), and applies
// FileLimit.
func (e *engine) resolvePaths(ctx context.Context, args []string, seed *uint64, fileLimit int) ([]string, error) {
	var all []string
	for _, arg := range args {
		expanded, err := e.resolved.S3.Expand(ctx, arg)
		if err != nil {
			return nil, err
		}
		all = append(all, expanded...)
	}
	sort.Strings(all)

	if seed != nil {
		rng := rand.New(rand.NewPCG(*seed, *seed^0x9E3779B97F4A7C15))
		rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	} else {
		rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	}
	if fileLimit > 0 && len(all) > fileLimit {
		all = all[:fileLimit]
	}
	return all, nil
}

// buildTable constructs the shared counting table for opts, filling
// every lane with initial (0 for top-K/unique, the width's max for
// bottom-K's first pass).
func buildTable(opts CommonOptions, width ngramtable.Width, initial uint64) (ngramtable.Table, error) {
	budget, err := sizeparse.Parse(opts.Size)
	if err != nil {
		return nil, err
	}
	return ngramtable.New(ngramtable.Config{
		ByteBudget: budget,
		K:          opts.Hashes,
		Width:      width,
		Seed:       opts.Seed,
		Initial:    initial,
	})
}

func defaultWorkers(requested, numPaths int) int {
	n := runtime.NumCPU()
	if requested > 0 && requested < n {
		n = requested
	}
	if n > 64 {
		n = 64
	}
	if numPaths < n {
		n = numPaths
	}
	return n
}

// runCounting drives one pass of the counting pipeline (kind) over
// every path matched by opts.Paths. For TopK and BottomKPass2, each
// worker's local heap is drained through a merger into global; for
// BottomKPass1 and Unique, global may be nil and only table is
// mutated.
func (e *engine) runCounting(ctx context.Context, opts CommonOptions, kind pipeline.Kind, table ngramtable.Table, width ngramtable.Width, global *topk.Heap) (filesOK, filesFailed int, err error) {
	paths, err := e.resolvePaths(ctx, opts.Paths, opts.Seed, opts.FileLimit)
	if err != nil {
		return 0, 0, err
	}
	if len(paths) == 0 {
		return 0, 0, errors.New("no input files matched the given paths")
	}

	pool := workerpool.New(workerpool.Config{
		MaxWorkers: defaultWorkers(opts.Workers, len(paths)),
		QueueDepth: opts.QueueDepth,
	})

	usesHeap := kind == pipeline.TopK || kind == pipeline.BottomKPass2

	var mrg *merger.Merger
	var drainDone chan struct{}
	var globalWatermark *atomic.Uint64
	if usesHeap {
		if global == nil {
			return 0, 0, errors.New("runCounting: global heap required for a heap-backed task kind")
		}
		globalWatermark = global.MinCount()
		mrg = merger.New(merger.DefaultCapacity)
		drainDone = make(chan struct{})
		go func() {
			mrg.Drain(global, pool.EarlyExit())
			close(drainDone)
		}()
	}

	var mu sync.Mutex
	var ok, failed int

	runErr := pool.Run(ctx, paths, func(ctx context.Context, path string) error {
		var filter *dedup.LineFilter
		if opts.DedupLines {
			filter = dedup.NewLineFilter(1_000_000, 0.01)
		}

		src, err := recordsource.Open(ctx, path, e.resolved.S3, filter)
		if err != nil {
			mu.Lock()
			failed++
			mu.Unlock()
			e.resolved.Metrics.FilesFailed.Inc()
			return err
		}
		defer src.Close()

		var localHeap *topk.Heap
		if usesHeap {
			localHeap = topk.New(opts.K)
		}

		var rng *rand.Rand
		if opts.PKeep < 1.0 {
			seed := uint64(len(path))
			if opts.Seed != nil {
				seed = *opts.Seed ^ uint64(len(path))
			}
			rng = rand.New(rand.NewPCG(seed, seed^0x2545F4914F6CDD1D))
		}

		p := pipeline.New(e.tok, pipeline.Options{
			N:         opts.N,
			Kind:      kind,
			Table:     table,
			Width:     width,
			LocalHeap: localHeap,
			Global:    globalWatermark,
			Threshold: opts.Threshold,
			PKeep:     opts.PKeep,
			Rng:       rng,
		})

		var recordCount int
		for {
			if pool.EarlyExit().Load() {
				break
			}
			if opts.Limit >= 0 && recordCount >= opts.Limit {
				break
			}
			rec, err := src.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				e.resolved.Metrics.FilesFailed.Inc()
				return err
			}
			p.Process(*rec.Text)
			recordCount++
			e.resolved.Metrics.RecordsProcessed.Inc()
			e.resolved.Metrics.BytesRead.Add(float64(len(*rec.Text)))
		}

		if usesHeap {
			drained := localHeap.Drain()
			e.resolved.Metrics.NgramsAdmitted.Add(float64(len(drained)))
			for _, entry := range drained {
				mrg.Send(entry)
			}
		}
		e.resolved.Metrics.FilesProcessed.Inc()
		mu.Lock()
		ok++
		mu.Unlock()
		return nil
	})
	if runErr != nil {
		return ok, failed, runErr
	}

	if usesHeap {
		mrg.Close()
		<-drainDone
	}

	return ok, failed, pool.Join()
}
