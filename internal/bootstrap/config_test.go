package bootstrap

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/gatehouse/config"
)

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"ADMIN_GROUP=admins\nUSER_GROUP=users\nAUTH_MODE=mock\nAPP_COOKIE_DOMAIN=example.com\n",
	), 0o600))
	t.Chdir(dir)

	// godotenv never overrides variables that are already set, so register cleanup for the keys it sets.
	for _, k := range []string{"ADMIN_GROUP", "USER_GROUP", "AUTH_MODE", "APP_COOKIE_DOMAIN"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, "admins", cfg.Auth.AdminGroup)
	assert.Equal(t, "example.com", cfg.HTTP.CookieDomain)
}

func TestLoadConfig_WithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADMIN_GROUP", "admins")
	t.Setenv("USER_GROUP", "users")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.AuthModeOAuth, cfg.Auth.Mode)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADMIN_GROUP", "")
	require.NoError(t, os.Unsetenv("ADMIN_GROUP"))
	t.Setenv("USER_GROUP", "users")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_LocalFileWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"ADMIN_GROUP=admins\nUSER_GROUP=users\nAPP_COOKIE_DOMAIN=example.com\n",
	), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte(
		"APP_COOKIE_DOMAIN=localhost\n",
	), 0o600))
	t.Chdir(dir)
	for _, k := range []string{"ADMIN_GROUP", "USER_GROUP", "APP_COOKIE_DOMAIN"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.HTTP.CookieDomain)
	assert.Equal(t, "admins", cfg.Auth.AdminGroup)
}

func TestConfigureLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := ConfigureLogger(config.LogConfig{Level: slog.LevelWarn, Format: config.LogFormatText}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "login", "alice")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown login=alice")
	assert.Same(t, logger, slog.Default())

	buf.Reset()
	ConfigureLogger(config.LogConfig{}, &buf).Info("json by default")
	assert.Contains(t, buf.String(), `"msg":"json by default"`)
}
