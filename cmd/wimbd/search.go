package main

import (
	"context"

	"github.com/wimbd-go/wimbd/internal/task"
)

type searchCmd struct {
	Paths   []string `arg:"" help:"corpus files, directories, or s3:// prefixes."`
	Pattern string   `arg:"" help:"regular expression to match against each record's text."`

	WithLocations bool `help:"record the shard path and byte offsets of every match." name:"with-locations"`
	MaxMatches    int  `help:"stop early once this many matches are found; 0 means no limit." name:"max-matches"`

	Out   string `help:"output file or directory; stdout if unset." type:"path"`
	Force bool   `help:"overwrite an existing output file."`
}

func (cmd *searchCmd) Run(g *globalOptions) error {
	opts := task.SearchOptions{
		CommonOptions: g.common(cmd.Paths, 0, 0, 0, 1.0, false, cmd.Out, cmd.Force, ""),
		Pattern:       cmd.Pattern,
		WithLocations: cmd.WithLocations,
		MaxMatches:    cmd.MaxMatches,
	}

	res, err := task.RunSearch(context.Background(), g.resolved, opts)
	if err != nil {
		return err
	}

	return g.emit(res, task.NameOptions{Hashes: g.Hashes, Limit: g.Limit, Seed: g.Seed}, cmd.Out, cmd.Force)
}
