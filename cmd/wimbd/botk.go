package main

import (
	"context"

	"github.com/wimbd-go/wimbd/internal/task"
)

type botkCmd struct {
	Paths []string `arg:"" help:"corpus files, directories, or s3:// prefixes."`

	N         int     `help:"n-gram length." default:"1"`
	K         int     `help:"number of bottom entries to keep." default:"1000"`
	Threshold uint64  `help:"admit only n-grams whose true count is below this; 0 means no cap." default:"0"`
	PKeep     float64 `help:"admission keep-probability for thinning; 1 disables thinning." default:"1.0"`
	Vocab     string  `help:"pretrained vocabulary file, one token per line; whitespace tokenizer if unset." type:"path"`
	Dedup     bool    `help:"skip exact-duplicate raw lines within a shard before decoding." name:"dedup-lines"`

	Out   string `help:"output file or directory; stdout if unset." type:"path"`
	Force bool   `help:"overwrite an existing output file."`
}

func (cmd *botkCmd) Run(g *globalOptions) error {
	opts := g.common(cmd.Paths, cmd.N, cmd.K, cmd.Threshold, cmd.PKeep, cmd.Dedup, cmd.Out, cmd.Force, cmd.Vocab)

	res, err := task.RunBottomK(context.Background(), g.resolved, opts)
	if err != nil {
		return err
	}

	return g.emit(res, task.NameOptions{N: cmd.N, K: cmd.K, Hashes: g.Hashes, Limit: g.Limit, Seed: g.Seed}, cmd.Out, cmd.Force)
}
