package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfigFile(t *testing.T, content map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(content)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad_DefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("RUNBOOKOPS_JWT__SECRET_KEY", testSecret)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.MetricsPort)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.Pipeline.SimulatedLatency)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, testSecret, cfg.JWT.SecretKey)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"server": map[string]any{
			"port": "8081",
		},
		"log": map[string]any{
			"level": "debug",
		},
		"jwt": map[string]any{
			"secret_key": testSecret,
		},
		"pipeline": map[string]any{
			"simulated_latency": "1s",
		},
		"history": map[string]any{
			"seed": 42,
		},
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.Pipeline.SimulatedLatency)
	assert.Equal(t, uint64(42), cfg.History.Seed)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"server": map[string]any{"port": "8081"},
		"jwt":    map[string]any{"secret_key": testSecret},
	})

	t.Setenv("RUNBOOKOPS_SERVER__PORT", "9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_InvalidLogLevelFails(t *testing.T) {
	t.Setenv("RUNBOOKOPS_JWT__SECRET_KEY", testSecret)
	t.Setenv("RUNBOOKOPS_LOG__LEVEL", "loud")

	_, err := Load("")
	assert.Error(t, err)
}
