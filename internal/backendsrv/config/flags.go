package config

import (
	"flag"
	"os"

	"github.com/okulikov/handtext/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8085")
//	-b string   store kind: sqlite | postgres
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//
// The function filters os.Args to the flags it owns, via flagx.FilterArgs,
// to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run the server")
	fs.StringVar(&cfg.Store, "b", cfg.Store, "store kind: sqlite | postgres")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
