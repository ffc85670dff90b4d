// Package workerpool runs a bounded set of concurrent goroutines over
// a list of corpus shard paths, with per-job retries, a shared
// early-exit flag, and folded multi-error reporting.
package workerpool

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/wimbd-go/wimbd/pkg/boundedwaitgroup"
)

// JobFunc processes one shard path. A non-nil error is retried up to
// Config.MaxRetries times before being recorded as a failure.
type JobFunc func(ctx context.Context, path string) error

// Config bounds worker concurrency and queue depth, plus the retry
// count a task driver sets per task kind (0 by default, 2 for the
// stats task).
type Config struct {
	MaxWorkers int
	QueueDepth int
	MaxRetries int
}

// Pool runs a fixed number of worker goroutines, gated by
// pkg/boundedwaitgroup so that at most MaxWorkers jobs are in flight
// at once, with a single shared early-exit flag any worker can set
// to stop the rest from picking up further jobs.
type Pool struct {
	cfg       Config
	mu        sync.Mutex
	errs      []error
	earlyExit *atomic.Bool
	closed    atomic.Bool
}

// New constructs a Pool. MaxWorkers <= 0 is treated as 1.
func New(cfg Config) *Pool {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	return &Pool{cfg: cfg, earlyExit: atomic.NewBool(false)}
}

// EarlyExit returns the pool's shared cancellation flag. Task drivers
// that want to stop early (e.g. a regex search that has found
// --max-matches matches) set it directly; Run's workers check it between
// jobs and on each retry.
func (p *Pool) EarlyExit() *atomic.Bool {
	return p.earlyExit
}

// Run dispatches fn over every payload using up to Config.MaxWorkers
// concurrent goroutines and blocks until all payloads have been
// attempted, the context is canceled, or EarlyExit is set. Per-job
// errors are retried Config.MaxRetries times, then recorded; Run
// itself never returns an error for a job failure — call Join after
// Run to fold every such error into one summary error.
func (p *Pool) Run(ctx context.Context, payloads []string, fn JobFunc) error {
	if p.closed.Load() {
		return errors.New("workerpool: Run called on a pool that was already shut down")
	}
	if p.cfg.QueueDepth > 0 && len(payloads) > p.cfg.QueueDepth {
		return errors.Errorf("workerpool: %d payloads exceeds queue depth %d", len(payloads), p.cfg.QueueDepth)
	}

	p.mu.Lock()
	p.errs = p.errs[:0]
	p.mu.Unlock()

	bg := boundedwaitgroup.New(uint(p.cfg.MaxWorkers))
	for _, path := range payloads {
		if p.earlyExit.Load() || ctx.Err() != nil {
			break
		}
		bg.Add(1)
		go func(path string) {
			defer bg.Done()
			if p.earlyExit.Load() || ctx.Err() != nil {
				return
			}
			if err := p.runWithRetry(ctx, path, fn); err != nil {
				p.mu.Lock()
				p.errs = append(p.errs, err)
				p.mu.Unlock()
			}
		}(path)
	}
	bg.Wait()
	return nil
}

func (p *Pool) runWithRetry(ctx context.Context, path string, fn JobFunc) error {
	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if p.earlyExit.Load() || ctx.Err() != nil {
			return nil
		}
		lastErr = fn(ctx, path)
		if lastErr == nil {
			return nil
		}
	}
	// Retries exhausted: promote to fatal so no other worker picks up
	// further jobs.
	p.earlyExit.Store(true)
	return errors.Wrapf(lastErr, "processing %q after %d attempt(s)", path, p.cfg.MaxRetries+1)
}

// Join folds every job error recorded by the most recent Run into one
// summary error via go.uber.org/multierr, or nil if none occurred.
func (p *Pool) Join() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return multierr.Combine(p.errs...)
}

// HasErrors reports whether the most recent Run recorded any job
// errors, without allocating the combined error.
func (p *Pool) HasErrors() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.errs) > 0
}

// Shutdown marks the pool closed; subsequent Run calls return an
// error instead of launching workers.
func (p *Pool) Shutdown() {
	p.closed.Store(true)
}
