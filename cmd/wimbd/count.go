package main

import (
	"context"

	"github.com/wimbd-go/wimbd/internal/task"
)

type countCmd struct {
	Paths []string `arg:"" help:"corpus files, directories, or s3:// prefixes."`
	Terms []string `arg:"" help:"target phrases to count exactly, e.g. \"the quick brown\"."`

	Vocab string `help:"pretrained vocabulary file, one token per line; whitespace tokenizer if unset." type:"path"`

	Out   string `help:"output file or directory; stdout if unset." type:"path"`
	Force bool   `help:"overwrite an existing output file."`
}

func (cmd *countCmd) Run(g *globalOptions) error {
	opts := task.CountOptions{
		CommonOptions: g.common(cmd.Paths, 0, 0, 0, 1.0, false, cmd.Out, cmd.Force, cmd.Vocab),
		Terms:         cmd.Terms,
	}

	res, err := task.RunCount(context.Background(), g.resolved, opts)
	if err != nil {
		return err
	}

	return g.emit(res, task.NameOptions{Hashes: g.Hashes, Limit: g.Limit, Seed: g.Seed}, cmd.Out, cmd.Force)
}
