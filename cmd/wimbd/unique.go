package main

import (
	"context"

	"github.com/wimbd-go/wimbd/internal/task"
)

type uniqueCmd struct {
	Paths []string `arg:"" help:"corpus files, directories, or s3:// prefixes."`

	N     int    `help:"n-gram length." default:"1"`
	Vocab string `help:"pretrained vocabulary file, one token per line; whitespace tokenizer if unset." type:"path"`
	Dedup bool   `help:"skip exact-duplicate raw lines within a shard before decoding." name:"dedup-lines"`

	Out   string `help:"output file or directory; stdout if unset." type:"path"`
	Force bool   `help:"overwrite an existing output file."`
}

func (cmd *uniqueCmd) Run(g *globalOptions) error {
	opts := g.common(cmd.Paths, cmd.N, 0, 0, 1.0, cmd.Dedup, cmd.Out, cmd.Force, cmd.Vocab)

	res, err := task.RunUnique(context.Background(), g.resolved, opts)
	if err != nil {
		return err
	}

	return g.emit(res, task.NameOptions{N: cmd.N, Hashes: g.Hashes, Limit: g.Limit, Seed: g.Seed}, cmd.Out, cmd.Force)
}
