package task

import (
	"context"

	"github.com/pkg/errors"

	"github.com/wimbd-go/wimbd/internal/config"
	"github.com/wimbd-go/wimbd/pkg/ngramtable"
	"github.com/wimbd-go/wimbd/pkg/pipeline"
	"github.com/wimbd-go/wimbd/pkg/topk"
)

// RunBottomK finds the K lowest-count n-grams, using the same
// conservative-update table in two passes: the first decrements every
// lane from the width's maximum (so the table ends up holding an
// inverted count), the second re-reads the corpus and admits
// candidates by that inverted count.
func RunBottomK(ctx context.Context, resolved *config.Resolved, opts CommonOptions) (*Result, error) {
	if opts.PKeep == 0 {
		opts.PKeep = 1.0
	}
	e, err := newEngine(resolved, opts.VocabPath)
	if err != nil {
		return nil, err
	}

	width := ngramtable.Width32
	table, err := buildTable(opts, width, width.Max())
	if err != nil {
		return nil, err
	}

	pass1OK, pass1Failed, err := e.runCounting(ctx, opts, pipeline.BottomKPass1, table, width, nil)
	if err != nil {
		return nil, errors.Wrap(err, "bottom-k first pass")
	}

	// Threshold is "admit only n-grams whose true count is below this,"
	// inverted for this pass's admission test. 0 means the flag was
	// left at its unset default, which would otherwise admit nothing at
	// all once inverted, so it is treated as "no cap."
	pass2Opts := opts
	if pass2Opts.Threshold == 0 {
		pass2Opts.Threshold = width.Max()
	}

	global := topk.New(opts.K)
	pass2OK, pass2Failed, err := e.runCounting(ctx, pass2Opts, pipeline.BottomKPass2, table, width, global)
	if err != nil {
		return nil, errors.Wrap(err, "bottom-k second pass")
	}

	entries := entriesFromHeap(global)
	for i := range entries {
		entries[i].Count = width.Max() - entries[i].Count
		entries[i].Rank = i + 1
	}

	return &Result{
		Task:        "botk",
		Entries:     entries,
		FilesOK:     pass1OK + pass2OK,
		FilesFailed: pass1Failed + pass2Failed,
	}, nil
}
