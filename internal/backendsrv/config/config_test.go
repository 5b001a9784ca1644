package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8085", c.Addr)
	assert.Equal(t, StoreSQLite, c.Store)
	assert.Equal(t, "handtext-server.db", c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd", "-a", ":9000", "-b", "postgres", "-d", "postgres://x/y", "-s", "k"}

	cfg := &Config{}
	require.NotPanics(t, func() { parseFlags(cfg) })

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "postgres://x/y", cfg.DatabaseDSN)
	assert.Equal(t, "k", cfg.SecretKey)
}

func Test_parseEnv(t *testing.T) {
	t.Setenv("HANDTEXT_SRV_ADDR", ":7777")
	t.Setenv("HANDTEXT_SRV_SECRET_KEY", "env-secret")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, StoreSQLite, cfg.Store, "unset vars keep defaults")
}
