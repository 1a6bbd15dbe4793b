package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "fern-api", cfg.AppName)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 3, cfg.SaveMaxRetries)
	assert.Equal(t, 10*time.Second, cfg.RedisLockTTL)
	assert.Equal(t, "config-events", cfg.KafkaConfigTopic)
	assert.Equal(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE"}, cfg.AllowMethods)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SAVE_MAX_RETRIES", "7")
	t.Setenv("REDIS_LOCK_WAIT", "250ms")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 7, cfg.SaveMaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RedisLockWait)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FERN_TEST_ONLY=1\nDB_NAME=from_file\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("FERN_TEST_ONLY")
		os.Unsetenv("DB_NAME")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.DatabaseName)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	bad := cfg
	bad.Port = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.SaveMaxRetries = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.OTLPProtocol = "udp"
	assert.Error(t, bad.Validate())
}

func TestDatabaseURL(t *testing.T) {
	cfg := Config{DatabaseHost: "db", DatabasePort: "5432", DatabaseUserName: "u", DatabasePassword: "p", DatabaseName: "fern", DatabaseSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=fern sslmode=disable", cfg.DatabaseURL())
}
