package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mailpasswd/internal/flagx"
	"github.com/dmitrijs2005/mailpasswd/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeout may be
// "5s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL string         `json:"server_url"`
	Timeout   timex.Duration `json:"timeout"`
}

// parseJson overlays cfg with the file named by -c or -config. Absent fields
// keep their previous value. Read and decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath(os.Args[1:])
	if path == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.Timeout.Duration > 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
}
