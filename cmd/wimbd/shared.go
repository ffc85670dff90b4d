package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/wimbd-go/wimbd/internal/config"
	"github.com/wimbd-go/wimbd/internal/task"
)

// applyOverlay fills any Global field still at its zero value from
// the YAML overlay, letting a user pin defaults in a config file
// instead of repeating flags on every invocation. Flags explicitly
// passed on the command line always win, since kong has already
// applied them to g by the time this runs.
func applyOverlay(g *config.Global, v *viper.Viper) {
	if g.Size == "" && v.IsSet("size") {
		g.Size = v.GetString("size")
	}
	if g.Hashes == 0 && v.IsSet("hashes") {
		g.Hashes = v.GetInt("hashes")
	}
	if g.Workers == 0 && v.IsSet("workers") {
		g.Workers = v.GetInt("workers")
	}
	if g.QueueDepth == 0 && v.IsSet("queue-depth") {
		g.QueueDepth = v.GetInt("queue-depth")
	}
	if g.S3Endpoint == "" && v.IsSet("s3-endpoint") {
		g.S3Endpoint = v.GetString("s3-endpoint")
	}
	if g.LogLevel == "" && v.IsSet("log-level") {
		g.LogLevel = v.GetString("log-level")
	}
}

// globalOptions bundles the parsed flags and the process-wide
// collaborators built from them: every subcommand's Run receives one
// of these rather than reaching for package-level state.
type globalOptions struct {
	*config.Global
	resolved *config.Resolved
}

// common assembles a task.CommonOptions from the flags shared across
// every counting task plus this command's own N/K/threshold/p-keep.
func (g *globalOptions) common(paths []string, n, k int, threshold uint64, pkeep float64, dedupLines bool, out string, force bool, vocab string) task.CommonOptions {
	return task.CommonOptions{
		Paths:      paths,
		N:          n,
		K:          k,
		Size:       g.Size,
		Hashes:     g.Hashes,
		Seed:       g.Seed,
		Workers:    g.Workers,
		QueueDepth: g.QueueDepth,
		FileLimit:  g.FileLimit,
		Limit:      g.Limit,
		DedupLines: dedupLines,
		PKeep:      pkeep,
		Threshold:  threshold,
		Out:        out,
		Force:      force,
		VocabPath:  vocab,
	}
}

// emit writes res's entries (or its unique-count line) to the
// resolved output path, or to stdout when there is none, and, unless
// --quiet/--json was set, renders the stderr summary table.
func (g *globalOptions) emit(res *task.Result, nameOpts task.NameOptions, out string, force bool) error {
	path, err := task.ResolveOutputPath(out, force, nameOpts)
	if err != nil {
		return err
	}

	w := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "creating output file %q", path)
		}
		defer f.Close()
		if err := writeResult(f, res); err != nil {
			return err
		}
	} else {
		if err := writeResult(w, res); err != nil {
			return err
		}
	}

	if !g.Quiet && !g.JSON {
		task.RenderSummary(os.Stderr, res)
	}
	return nil
}

func writeResult(w *os.File, res *task.Result) error {
	if len(res.Locations) > 0 {
		return task.WriteLocationLines(w, res.Locations)
	}
	if res.UniqueCount != nil && len(res.Entries) == 0 {
		return task.WriteUniqueLine(w, *res.UniqueCount)
	}
	if err := task.WriteJSONLines(w, res.Entries); err != nil {
		return err
	}
	if len(res.MaxTokenDocs) > 0 || len(res.MinTokenDocs) > 0 {
		return task.WriteDocumentPointerLines(w, res.MaxTokenDocs, res.MinTokenDocs)
	}
	return nil
}
