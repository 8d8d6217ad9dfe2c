package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/friendszone/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// os.Args is filtered with flagx.FilterArgs first so the -c and -env
// layers don't trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-o", "-a", "-l", "-v", "-m", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend: memory or postgres")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.BlobStore, "o", cfg.BlobStore, "blob store: memory, s3 or minio")
	fs.StringVar(&cfg.AppID, "a", cfg.AppID, "app id")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "session token file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
