package task

import (
	"context"

	"github.com/wimbd-go/wimbd/internal/config"
	"github.com/wimbd-go/wimbd/pkg/ngramtable"
	"github.com/wimbd-go/wimbd/pkg/pipeline"
)

// RunUnique estimates the number of distinct n-grams across
// opts.Paths using the counting table's Bloom-filter cardinality
// correction, without ever materializing a ranked list.
func RunUnique(ctx context.Context, resolved *config.Resolved, opts CommonOptions) (*Result, error) {
	e, err := newEngine(resolved, opts.VocabPath)
	if err != nil {
		return nil, err
	}

	table, err := buildTable(opts, ngramtable.Width8, 0)
	if err != nil {
		return nil, err
	}

	filesOK, filesFailed, err := e.runCounting(ctx, opts, pipeline.Unique, table, ngramtable.Width8, nil)
	if err != nil {
		return nil, err
	}

	count := table.Nonzero()
	return &Result{Task: "unique", UniqueCount: &count, FilesOK: filesOK, FilesFailed: filesFailed}, nil
}
