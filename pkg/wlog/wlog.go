// Package wlog configures the process-wide structured logger. Per
// the design note on global mutable state, the logger is an external
// collaborator with its own process-wide lifecycle, configured once
// at startup and threaded explicitly after that — never accessed
// through a package-level global.
package wlog

import (
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New builds a logfmt logger at the given minimum level ("debug",
// "info", "warn", "error"; unrecognized values fall back to "info"),
// with a timestamp and caller annotation.
func New(levelName string) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.Caller(5))

	var lvl level.Option
	switch levelName {
	case "debug":
		lvl = level.AllowDebug()
	case "warn":
		lvl = level.AllowWarn()
	case "error":
		lvl = level.AllowError()
	default:
		lvl = level.AllowInfo()
	}
	return level.NewFilter(logger, lvl)
}
