package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointConfigFileAt keeps Load away from any config.yaml in the working
// directory.
func pointConfigFileAt(t *testing.T, path string) {
	t.Helper()
	if path == "" {
		path = filepath.Join(t.TempDir(), "absent.yaml")
	}
	t.Setenv("GRADEPULSE_CONFIG_FILE", path)
}

func TestLoad_Defaults(t *testing.T) {
	pointConfigFileAt(t, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "Data", cfg.Paths.DataDir)
	assert.Equal(t, "Data/LoginData.xlsx", cfg.Paths.LoginFile)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	pointConfigFileAt(t, "")
	t.Setenv("GRADEPULSE_SERVER_PORT", "9090")
	t.Setenv("GRADEPULSE_PATHS_DATA_DIR", "/srv/school/data")
	t.Setenv("GRADEPULSE_AUTH_TOKEN_SECRET", "prod-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/school/data", cfg.Paths.DataDir)
	assert.Equal(t, "prod-secret", cfg.Auth.TokenSecret)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server:\n  port: 9000\npaths:\n  data_dir: /data/school\n"), 0o644))
	pointConfigFileAt(t, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/data/school", cfg.Paths.DataDir)
	// Untouched values keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644))
	pointConfigFileAt(t, path)
	t.Setenv("GRADEPULSE_SERVER_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port out of range", key: "GRADEPULSE_SERVER_PORT", value: "70000"},
		{name: "bad log level", key: "GRADEPULSE_LOGGING_LEVEL", value: "verbose"},
		{name: "bad log output", key: "GRADEPULSE_LOGGING_OUTPUT", value: "syslog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pointConfigFileAt(t, "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
