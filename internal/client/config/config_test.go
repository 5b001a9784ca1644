package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:5000", c.RecognizerBaseURL)
	assert.Equal(t, BackendMemory, c.Backend)
	assert.Equal(t, "http://127.0.0.1:8085", c.BackendAddr)
	assert.Equal(t, "handtext.db", c.DatabaseDSN)
	assert.Equal(t, 60*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:5000", cfg.RecognizerBaseURL)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func Test_parseEnv(t *testing.T) {
	t.Setenv("HANDTEXT_BACKEND", BackendPostgres)
	t.Setenv("HANDTEXT_DATABASE_DSN", "postgres://localhost/handtext")
	t.Setenv("HANDTEXT_REQUEST_TIMEOUT", "15s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, "postgres://localhost/handtext", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.RecognizerBaseURL, "unset vars keep defaults")
}
