package task

import (
	"context"
	"io"
	"math"
	"sync"

	"go.uber.org/atomic"

	"github.com/wimbd-go/wimbd/internal/config"
	"github.com/wimbd-go/wimbd/pkg/recordsource"
	"github.com/wimbd-go/wimbd/pkg/workerpool"
)

// statsMaxRetries is the default retry budget for the whole-corpus
// stats task, higher than the other tasks' because a single transient
// shard read failure should not cost an entire pass over a large
// corpus.
const statsMaxRetries = 2

// RunStats computes corpus-wide token, line, and byte counts across
// opts.Paths, without building a counting table at all, and tracks
// pointers to the document(s) tied for the most and fewest tokens.
func RunStats(ctx context.Context, resolved *config.Resolved, opts CommonOptions) (*Result, error) {
	e, err := newEngine(resolved, opts.VocabPath)
	if err != nil {
		return nil, err
	}
	paths, err := e.resolvePaths(ctx, opts.Paths, opts.Seed, opts.FileLimit)
	if err != nil {
		return nil, err
	}

	pool := workerpool.New(workerpool.Config{
		MaxWorkers: defaultWorkers(opts.Workers, len(paths)),
		QueueDepth: opts.QueueDepth,
		MaxRetries: statsMaxRetries,
	})

	var lines, tokens, bytesRead atomic.Uint64
	var filesOKCounter, filesFailedCounter atomic.Int64

	extremes := newExtremeTracker()

	runErr := pool.Run(ctx, paths, func(ctx context.Context, path string) error {
		src, err := recordsource.Open(ctx, path, resolved.S3, nil)
		if err != nil {
			filesFailedCounter.Inc()
			return err
		}
		defer src.Close()

		var recordCount, lineNo int
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
				filesFailedCounter.Inc()
				return err
			}
			numTokens := len(e.tok.Tokenize(*rec.Text))
			lines.Inc()
			bytesRead.Add(uint64(len(*rec.Text)))
			tokens.Add(uint64(numTokens))
			extremes.observe(DocumentPointer{Path: path, Line: lineNo, NumTokens: numTokens})
			recordCount++
			lineNo++
		}
		filesOKCounter.Inc()
		return nil
	})
	if runErr != nil {
		return nil, runErr
	}

	maxDocs, minDocs := extremes.snapshot()
	res := &Result{
		Task:         "stats",
		FilesOK:      int(filesOKCounter.Load()),
		FilesFailed:  int(filesFailedCounter.Load()),
		MaxTokenDocs: maxDocs,
		MinTokenDocs: minDocs,
		Entries: []Entry{
			{String: "lines", Count: lines.Load(), Rank: 1},
			{String: "tokens", Count: tokens.Load(), Rank: 2},
			{String: "bytes", Count: bytesRead.Load(), Rank: 3},
		},
	}
	return res, pool.Join()
}

// extremeTracker keeps every document tied for the corpus-wide most
// and fewest tokens seen so far, pruning stale entries whenever a
// strictly new extreme arrives.
type extremeTracker struct {
	mu      sync.Mutex
	maxTok  int
	minTok  int
	maxDocs []DocumentPointer
	minDocs []DocumentPointer
}

func newExtremeTracker() *extremeTracker {
	return &extremeTracker{minTok: math.MaxInt}
}

func (t *extremeTracker) observe(doc DocumentPointer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case doc.NumTokens > t.maxTok:
		t.maxTok = doc.NumTokens
		t.maxDocs = []DocumentPointer{doc}
	case doc.NumTokens == t.maxTok:
		t.maxDocs = append(t.maxDocs, doc)
	}

	switch {
	case doc.NumTokens < t.minTok:
		t.minTok = doc.NumTokens
		t.minDocs = []DocumentPointer{doc}
	case doc.NumTokens == t.minTok:
		t.minDocs = append(t.minDocs, doc)
	}
}

func (t *extremeTracker) snapshot() (max, min []DocumentPointer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]DocumentPointer(nil), t.maxDocs...), append([]DocumentPointer(nil), t.minDocs...)
}
