package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   base URL of the server (default from Config)
//	-t int      request timeout in seconds (default from Config)
//
// Subcommand flags such as -u are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the credential store")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Timeout = time.Duration(*timeout) * time.Second
}
