// Command wimbd counts, ranks, and searches n-grams across large
// newline-delimited-JSON text corpora within a fixed memory budget.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/go-kit/log/level"

	"github.com/wimbd-go/wimbd/internal/config"
)

var cli struct {
	config.Global `embed:""`

	TopK   topkCmd   `cmd:"" help:"find the K highest-count n-grams."`
	BotK   botkCmd   `cmd:"" help:"find the K lowest-count n-grams."`
	Unique uniqueCmd `cmd:"" help:"estimate the number of distinct n-grams."`
	Count  countCmd  `cmd:"" help:"count exact occurrences of target phrases."`
	Search searchCmd `cmd:"" help:"search records matching a regular expression."`
	Stats  statsCmd  `cmd:"" help:"compute corpus-wide token, line, and byte statistics."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("wimbd"),
		kong.Description("offline n-gram counting toolkit for large text corpora."),
		kong.UsageOnError(),
	)

	if cli.Config != "" {
		overlay, err := config.LoadOverlay(cli.Config)
		kctx.FatalIfErrorf(err)
		applyOverlay(&cli.Global, overlay)
	}

	resolved, err := cli.Global.Build()
	kctx.FatalIfErrorf(err)

	level.Debug(resolved.Logger).Log("msg", "starting", "command", kctx.Command())

	err = kctx.Run(&globalOptions{Global: &cli.Global, resolved: resolved})
	if err != nil {
		level.Error(resolved.Logger).Log("msg", "command failed", "err", err)
		os.Exit(1)
	}
}
