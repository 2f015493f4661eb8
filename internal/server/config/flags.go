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
//	-a string   HTTP bind address (e.g., "127.0.0.1:3000")
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN
//	-m int      maximum open database connections
//	-admins string  space-separated administrator UIDs
//	-l string   log level
//	-w int      shutdown timeout, seconds
//
// os.Args is first filtered with flagx.FilterArgs so that -c/-config and
// unrelated flags do not reach this FlagSet.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-m", "-admins", "-l", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.DatabaseMaxConns, "m", config.DatabaseMaxConns, "maximum open database connections")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	admins := fs.String("admins", "", "space-separated administrator UIDs")
	shutdown := fs.Int("w", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "admins" {
			config.AdminUIDs = SplitUIDs(*admins)
		}
	})
	config.ShutdownTimeout = time.Duration(*shutdown) * time.Second
}
