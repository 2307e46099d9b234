package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, DriverSpanner, cfg.StoreDriver)
	assert.Equal(t, "9090", cfg.GRPCPort)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Empty(t, cfg.OTLPEndpoint)
}

func TestLoadFrom_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_driver: postgres
database_url: postgres://file@localhost/storefront
http_port: "8081"
log_level: debug
otlp_insecure: true
`), 0o600))

	cfg, err := LoadFrom(envMap(map[string]string{
		"CONFIG_FILE":  path,
		"DATABASE_URL": "postgres://env@localhost/storefront",
		"GRPC_PORT":    "7070",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://env@localhost/storefront", cfg.DatabaseURL)
	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, "7070", cfg.GRPCPort)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.OTLPInsecure)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFrom(envMap(map[string]string{"CONFIG_FILE": filepath.Join(t.TempDir(), "nope.yaml")}))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store_driver: [unterminated"), 0o600))
		_, err := LoadFrom(envMap(map[string]string{"CONFIG_FILE": path}))
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := LoadFrom(envMap(map[string]string{"STORE_DRIVER": "mongo"}))
		assert.ErrorContains(t, err, "unknown store driver")
	})

	t.Run("postgres needs url", func(t *testing.T) {
		_, err := LoadFrom(envMap(map[string]string{"STORE_DRIVER": "postgres"}))
		assert.ErrorContains(t, err, "database_url")
	})
}
