package task

import (
	"context"

	"github.com/wimbd-go/wimbd/internal/config"
	"github.com/wimbd-go/wimbd/pkg/ngramtable"
	"github.com/wimbd-go/wimbd/pkg/pipeline"
	"github.com/wimbd-go/wimbd/pkg/topk"
)

// RunTopK counts n-grams across opts.Paths and returns the K
// highest-count ones.
func RunTopK(ctx context.Context, resolved *config.Resolved, opts CommonOptions) (*Result, error) {
	if opts.PKeep == 0 {
		opts.PKeep = 1.0
	}
	e, err := newEngine(resolved, opts.VocabPath)
	if err != nil {
		return nil, err
	}

	table, err := buildTable(opts, ngramtable.Width32, 0)
	if err != nil {
		return nil, err
	}

	global := topk.New(opts.K)
	filesOK, filesFailed, err := e.runCounting(ctx, opts, pipeline.TopK, table, ngramtable.Width32, global)
	if err != nil {
		return nil, err
	}

	res := &Result{Task: "topk", Entries: entriesFromHeap(global), FilesOK: filesOK, FilesFailed: filesFailed}
	for _, ent := range res.Entries {
		if table.Saturated(ent.Count) {
			res.Warnings = append(res.Warnings, "one or more reported counts saturated at the table width's maximum and may be undercounts")
			break
		}
	}
	return res, nil
}
