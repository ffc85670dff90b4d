package task

import (
	"context"
	"io"
	"regexp"
	"sync"

	"github.com/pkg/errors"

	"github.com/wimbd-go/wimbd/internal/config"
	"github.com/wimbd-go/wimbd/pkg/recordsource"
	"github.com/wimbd-go/wimbd/pkg/workerpool"
)

// MatchLocation identifies one regex match: the shard it was found
// in and the byte offsets of the match within that record's text.
type MatchLocation struct {
	Path  string `json:"path"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// SearchOptions parameterizes RunSearch.
type SearchOptions struct {
	CommonOptions
	Pattern       string
	WithLocations bool
	MaxMatches    int // 0 means unbounded
}

// RunSearch counts every match of a regular expression (not just
// matching records — a record with three matches counts three times)
// across opts.Paths, stopping early once MaxMatches have been found
// if MaxMatches > 0 (by setting the pool's shared early-exit flag, the
// same flag the pool raises when a job exhausts its retries). The
// count is returned in Result.UniqueCount.
func RunSearch(ctx context.Context, resolved *config.Resolved, opts SearchOptions) (*Result, error) {
	re, err := regexp.Compile(opts.Pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling search pattern %q", opts.Pattern)
	}

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
	})

	var mu sync.Mutex
	var matchCount uint64
	var locations []MatchLocation
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
			matches := re.FindAllStringIndex(*rec.Text, -1)
			if len(matches) > 0 {
				mu.Lock()
				matchCount += uint64(len(matches))
				if opts.WithLocations {
					for _, m := range matches {
						locations = append(locations, MatchLocation{Path: path, Start: m[0], End: m[1]})
					}
				}
				if opts.MaxMatches > 0 && int(matchCount) >= opts.MaxMatches {
					pool.EarlyExit().Store(true)
				}
				mu.Unlock()
			}
			recordCount++
		}

		mu.Lock()
		filesOK++
		mu.Unlock()
		return nil
	})
	if runErr != nil {
		return nil, runErr
	}

	res := &Result{Task: "search", FilesOK: filesOK, FilesFailed: filesFailed}
	count := float64(matchCount)
	res.UniqueCount = &count
	if opts.WithLocations {
		res.Locations = locations
	}
	return res, pool.Join()
}
