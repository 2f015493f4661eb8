// Package config loads runtime configuration for mailpasswdctl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   base URL of the credential store
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "https://mailpasswd.internal",
//	  "timeout": "5s"
//	}
package config
