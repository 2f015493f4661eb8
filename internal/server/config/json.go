package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mailpasswd/internal/flagx"
	"github.com/dmitrijs2005/mailpasswd/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "15s" strings
// or integer nanoseconds. Absent fields keep their previous value.
type JsonConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC    string         `json:"endpoint_addr_grpc"`
	DatabaseDSN         string         `json:"database_dsn"`
	DatabaseMaxConns    int            `json:"database_max_conns"`
	AdminUIDs           []string       `json:"admin_uids"`
	Argon2Time          uint32         `json:"argon2_time"`
	Argon2Memory        uint32         `json:"argon2_memory"`
	Argon2Threads       uint8          `json:"argon2_threads"`
	ShutdownTimeout     timex.Duration `json:"shutdown_timeout"`
	HealthCheckInterval timex.Duration `json:"health_check_interval"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays the file named by -c or -config, if any.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)

	if c.DatabaseMaxConns > 0 {
		config.DatabaseMaxConns = c.DatabaseMaxConns
	}
	if c.AdminUIDs != nil {
		config.AdminUIDs = c.AdminUIDs
	}
	if c.Argon2Time > 0 {
		config.Argon2Time = c.Argon2Time
	}
	if c.Argon2Memory > 0 {
		config.Argon2Memory = c.Argon2Memory
	}
	if c.Argon2Threads > 0 {
		config.Argon2Threads = c.Argon2Threads
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.HealthCheckInterval.Duration > 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
