// Package config holds runtime settings for the handtext CLI. Values are
// layered: defaults, then a JSON file (-c/-config), then environment
// variables, then command-line flags. Later sources win.
package config

import "time"

// Backend kinds accepted by the -b flag / HANDTEXT_BACKEND variable.
const (
	BackendMemory   = "memory"
	BackendREST     = "rest"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds runtime settings for the client.
//
// Fields:
//   - RecognizerBaseURL: base URL of the recognition service; the client
//     posts to <base>/segment_and_recognize.
//   - Backend: which auth/document-store adapter to use.
//   - BackendAddr: base URL of the REST backend (Backend == "rest").
//   - DatabaseDSN: DSN for the sqlite/postgres backends.
//   - RequestTimeout: per-request timeout for collaborator calls.
type Config struct {
	RecognizerBaseURL string        `env:"HANDTEXT_RECOGNIZER_URL"`
	Backend           string        `env:"HANDTEXT_BACKEND"`
	BackendAddr       string        `env:"HANDTEXT_BACKEND_ADDR"`
	DatabaseDSN       string        `env:"HANDTEXT_DATABASE_DSN"`
	RequestTimeout    time.Duration `env:"HANDTEXT_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults for a local setup.
func (c *Config) LoadDefaults() {
	c.RecognizerBaseURL = "http://127.0.0.1:5000"
	c.Backend = BackendMemory
	c.BackendAddr = "http://127.0.0.1:8085"
	c.DatabaseDSN = "handtext.db"
	c.RequestTimeout = 60 * time.Second
}

// LoadConfig constructs a Config from all sources in precedence order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
