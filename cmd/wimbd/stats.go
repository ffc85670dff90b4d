package main

import (
	"context"

	"github.com/wimbd-go/wimbd/internal/task"
)

type statsCmd struct {
	Paths []string `arg:"" help:"corpus files, directories, or s3:// prefixes."`
	Vocab string   `help:"pretrained vocabulary file, one token per line; whitespace tokenizer if unset." type:"path"`

	Out   string `help:"output file or directory; stdout if unset." type:"path"`
	Force bool   `help:"overwrite an existing output file."`
}

func (cmd *statsCmd) Run(g *globalOptions) error {
	opts := g.common(cmd.Paths, 0, 0, 0, 1.0, false, cmd.Out, cmd.Force, cmd.Vocab)

	res, err := task.RunStats(context.Background(), g.resolved, opts)
	if err != nil {
		return err
	}

	return g.emit(res, task.NameOptions{Hashes: g.Hashes, Limit: g.Limit, Seed: g.Seed}, cmd.Out, cmd.Force)
}
