package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvAdminUIDs   = "ADMIN_UIDS"
	EnvHTTPAddress = "HTTP_ADDRESS"
	EnvGRPCAddress = "GRPC_ADDRESS"
	EnvLogLevel    = "LOG_LEVEL"
)

// dotEnvFile is loaded into the environment when present. Variables already
// set in the process environment win.
var dotEnvFile = ".env"

func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv(EnvDatabaseURL); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvHTTPAddress); ok && v != "" {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(EnvGRPCAddress); ok && v != "" {
		config.EndpointAddrGRPC = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvAdminUIDs); ok {
		config.AdminUIDs = SplitUIDs(v)
	}
}

// SplitUIDs splits a space-separated UID list, dropping empty entries.
func SplitUIDs(s string) []string {
	return strings.Fields(s)
}
