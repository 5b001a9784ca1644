package config

import (
	"flag"
	"os"
	"time"

	"github.com/okulikov/handtext/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-r string   base URL of the recognition service
//	-b string   backend kind: memory | rest | sqlite | postgres
//	-s string   base URL of the REST backend
//	-d string   database DSN for the sqlite/postgres backends
//	-t int      request timeout in seconds
//
// The function filters os.Args to the flags it owns, via flagx.FilterArgs,
// to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-b", "-s", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RecognizerBaseURL, "r", cfg.RecognizerBaseURL, "base URL of the recognition service")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend kind: memory | rest | sqlite | postgres")
	fs.StringVar(&cfg.BackendAddr, "s", cfg.BackendAddr, "base URL of the REST backend")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN for sqlite/postgres backends")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
