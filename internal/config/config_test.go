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
	for _, k := range []string{"ADDR", "RECONNECT_ATTEMPTS", "RECONNECT_DELAY", "APP_ENV"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5, cfg.ReconnectAttempts)
	assert.Equal(t, time.Second, cfg.ReconnectDelay)
	assert.True(t, cfg.Development)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	t.Setenv("RECONNECT_DELAY", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:*, ,https://score.example.com")
	unsetenv(t, "RECONNECT_ATTEMPTS", "APP_ENV")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RECONNECT_ATTEMPTS=9\nAPP_ENV=production\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectDelay)
	assert.Equal(t, 9, cfg.ReconnectAttempts)
	assert.False(t, cfg.Development)
	assert.Equal(t, []string{"http://localhost:*", "https://score.example.com"}, cfg.AllowedOrigins)
}

// godotenv never overrides a variable that is already set, even to "".
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
