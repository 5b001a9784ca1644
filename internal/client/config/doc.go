// Package config loads runtime configuration for the handtext CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), HANDTEXT_* prefixed.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-r string   base URL of the recognition service
//	-b string   backend kind: memory | rest | sqlite | postgres
//	-s string   base URL of the REST backend
//	-d string   database DSN for the sqlite/postgres backends
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so the value can be
// either a string like "30s" or integer nanoseconds:
//
//	{
//	  "recognizer_base_url": "http://127.0.0.1:5000",
//	  "backend": "rest",
//	  "backend_addr": "http://127.0.0.1:8085",
//	  "database_dsn": "handtext.db",
//	  "request_timeout": "30s"
//	}
//
// Primary API
//
//   - type Config                     — holds recognizer, backend and timeout settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
