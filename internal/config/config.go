// Package config holds the options shared by every wimbd subcommand,
// and the optional YAML config-file overlay that lets a user pin
// defaults instead of repeating flags on every invocation.
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	kitlog "github.com/go-kit/log"

	"github.com/wimbd-go/wimbd/pkg/metrics"
	"github.com/wimbd-go/wimbd/pkg/objstore"
	"github.com/wimbd-go/wimbd/pkg/wlog"
)

// Global holds flags common to every task: one shared struct embedded
// into each per-command kong struct.
type Global struct {
	Size       string  `help:"counter byte budget (e.g. 4GiB, 500M)." default:"4GiB"`
	Hashes     int     `help:"number of hash functions k." default:"5"`
	Seed       *uint64 `help:"64-bit seed for deterministic hashing and shuffling; random if unset."`
	Workers    int     `help:"worker pool size, capped at min(NumCPU, 64, number of input files); 0 means that cap."`
	QueueDepth int     `help:"maximum number of input files per invocation." default:"100000"`
	FileLimit  int     `help:"process at most this many input files; 0 means no limit."`
	Limit      int     `help:"process at most this many records per file; negative means no limit." default:"-1" short:"l"`

	S3Endpoint string `help:"S3 endpoint to use for s3:// input paths." name:"s3-endpoint"`
	S3UseSSL   bool   `help:"use TLS when talking to S3Endpoint." name:"s3-ssl" default:"true"`

	Quiet   bool   `help:"suppress the stderr summary table." short:"q"`
	JSON    bool   `help:"write only JSON-lines output; implies --quiet." name:"json"`
	LogLevel string `help:"log level: debug, info, warn, error." default:"info" name:"log-level"`

	Config string `help:"optional YAML file of default flag values." type:"path"`
}

// Resolved holds the process-wide collaborators built once from
// Global at startup: the logger, metrics registry, and S3 client are
// configured once and threaded explicitly thereafter.
type Resolved struct {
	Logger  kitlog.Logger
	Metrics *metrics.Metrics
	S3      *objstore.Client
}

// Build constructs the shared collaborators from Global: a logger at
// the configured level, a Prometheus registry with this run's
// counters registered, and (if S3Endpoint is set) an S3 client for
// s3:// input paths.
func (g *Global) Build() (*Resolved, error) {
	var s3 *objstore.Client
	if g.S3Endpoint != "" {
		client, err := objstore.NewClient(g.S3Endpoint, g.S3UseSSL)
		if err != nil {
			return nil, errors.Wrap(err, "configuring S3 client")
		}
		s3 = client
	}

	reg := prometheus.NewRegistry()
	return &Resolved{
		Logger:  g.NewLogger(),
		Metrics: metrics.New(reg),
		S3:      s3,
	}, nil
}

// LoadOverlay reads path as YAML and returns it as a viper instance
// callers can use to fill unset flag defaults.
func LoadOverlay(path string) (*viper.Viper, error) {
	if path == "" {
		return viper.New(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "reading config file %q", path)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %q", path)
	}
	return v, nil
}

// NewLogger builds the process logger at Global.LogLevel.
func (g *Global) NewLogger() kitlog.Logger {
	return wlog.New(g.LogLevel)
}
