package config

import "time"

// Config holds runtime settings for mailpasswdctl.
//
// Fields:
//   - ServerURL: base URL of the credential store HTTP endpoint.
//   - Timeout: per-request timeout.
type Config struct {
	ServerURL string
	Timeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.Timeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
