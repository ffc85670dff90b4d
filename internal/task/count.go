package task

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/wimbd-go/wimbd/internal/config"
	"github.com/wimbd-go/wimbd/pkg/recordsource"
	"github.com/wimbd-go/wimbd/pkg/workerpool"
)

// CountOptions parameterizes RunCount: unlike the probabilistic
// counting tasks, an exact-count search is only ever run against a
// small fixed set of target phrases, so it keeps an exact in-memory
// tally rather than a counting table.
type CountOptions struct {
	CommonOptions
	Terms []string // target phrases, e.g. "the quick brown"
}

// RunCount tallies the exact number of occurrences of each of
// opts.Terms across opts.Paths, sliding a window sized to each term's
// own token length so a 3-word and a 5-word target are each matched
// against the right window size.
func RunCount(ctx context.Context, resolved *config.Resolved, opts CountOptions) (*Result, error) {
	e, err := newEngine(resolved, opts.VocabPath)
	if err != nil {
		return nil, err
	}

	targets := make([][]string, len(opts.Terms))
	for i, term := range opts.Terms {
		targets[i] = e.tok.Tokenize(term)
	}

	paths, err := e.resolvePaths(ctx, opts.Paths, opts.Seed, opts.FileLimit)
	if err != nil {
		return nil, err
	}

	counts := make([]uint64, len(targets))
	var mu sync.Mutex

	pool := workerpool.New(workerpool.Config{
		MaxWorkers: defaultWorkers(opts.Workers, len(paths)),
		QueueDepth: opts.QueueDepth,
	})

	var filesOK, filesFailed int
	runErr := pool.Run(ctx, paths, func(ctx context.Context, path string) error {
		src, err := recordsource.Open(ctx, path, resolved.S3, nil)
		if err != nil {
			mu.Lock()
			filesFailed++
			mu.Unlock()
			return err
		}
		defer src.Close()

		local := make([]uint64, len(targets))
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
				filesFailed++
				mu.Unlock()
				return err
			}
			tokens := e.tok.Tokenize(*rec.Text)
			for i, target := range targets {
				local[i] += countOccurrences(tokens, target)
			}
			recordCount++
		}

		mu.Lock()
		for i := range local {
			counts[i] += local[i]
		}
		filesOK++
		mu.Unlock()
		return nil
	})
	if runErr != nil {
		return nil, runErr
	}

	entries := make([]Entry, len(targets))
	for i, target := range targets {
		entries[i] = Entry{Tokens: target, String: strings.Join(target, " "), Count: counts[i], Rank: i + 1}
	}

	return &Result{Task: "count", Entries: entries, FilesOK: filesOK, FilesFailed: filesFailed}, pool.Join()
}

// countOccurrences slides a window the length of target across
// tokens, counting every position where it matches exactly.
func countOccurrences(tokens, target []string) uint64 {
	if len(target) == 0 || len(tokens) < len(target) {
		return 0
	}
	var n uint64
	for i := 0; i+len(target) <= len(tokens); i++ {
		if windowEquals(tokens[i:i+len(target)], target) {
			n++
		}
	}
	return n
}

func windowEquals(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
