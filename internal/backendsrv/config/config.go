// Package config handles configuration for the backend server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

// Store kinds accepted by the -b flag / HANDTEXT_SRV_STORE variable.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds runtime settings for the handtext backend server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - Store: which persistent store backs the server (sqlite | postgres).
//   - DatabaseDSN: DSN for the selected store.
//   - SecretKey: HMAC secret for signing id tokens (HS256). Do not use the
//     default outside development.
type Config struct {
	Addr        string `env:"HANDTEXT_SRV_ADDR"`
	Store       string `env:"HANDTEXT_SRV_STORE"`
	DatabaseDSN string `env:"HANDTEXT_SRV_DATABASE_DSN"`
	SecretKey   string `env:"HANDTEXT_SRV_SECRET_KEY"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8085"
	c.Store = StoreSQLite
	c.DatabaseDSN = "handtext-server.db"
	c.SecretKey = "secretKey"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
