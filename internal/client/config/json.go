package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/okulikov/handtext/internal/flagx"
	"github.com/okulikov/handtext/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so the file can specify the timeout either as a
// string like "30s" or as integer nanoseconds.
type JsonConfig struct {
	RecognizerBaseURL string         `json:"recognizer_base_url"`
	Backend           string         `json:"backend"`
	BackendAddr       string         `json:"backend_addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags. Absent file path means no JSON layer. Only fields
// present in the file override the current values.
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

	if jc.RecognizerBaseURL != "" {
		cfg.RecognizerBaseURL = jc.RecognizerBaseURL
	}
	if jc.Backend != "" {
		cfg.Backend = jc.Backend
	}
	if jc.BackendAddr != "" {
		cfg.BackendAddr = jc.BackendAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
