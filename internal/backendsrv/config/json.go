package config

import (
	"encoding/json"
	"os"

	"github.com/okulikov/handtext/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	Addr        string `json:"addr"`
	Store       string `json:"store"`
	DatabaseDSN string `json:"database_dsn"`
	SecretKey   string `json:"secret_key"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags. Only fields present in the file override the current
// values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Addr != "" {
		cfg.Addr = jc.Addr
	}
	if jc.Store != "" {
		cfg.Store = jc.Store
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
}
