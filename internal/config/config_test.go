package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvModel, EnvPort, EnvMQTTBroker, EnvMQTTTopic, EnvMQTTClientID} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Equal(t, DefaultModelPath, cfg.ModelPath)
	assert.Equal(t, 0, cfg.Port)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Equal(t, DefaultMQTTTopic, cfg.MQTTTopic)
	assert.Equal(t, DefaultMQTTClientID, cfg.MQTTClientID)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModel, "/srv/model.json")
	t.Setenv(EnvPort, "8585")
	t.Setenv(EnvMQTTBroker, "tcp://broker:1883")
	t.Setenv(EnvMQTTTopic, "home/bedtime")

	cfg := FromEnv()
	assert.Equal(t, "/srv/model.json", cfg.ModelPath)
	assert.Equal(t, 8585, cfg.Port)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	assert.Equal(t, "home/bedtime", cfg.MQTTTopic)
}

func TestFromEnv_BadPortFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "eighty")
	assert.Equal(t, 0, FromEnv().Port)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, so unset them.
	for _, k := range []string{EnvModel, EnvPort} {
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() {
		os.Unsetenv(EnvModel)
		os.Unsetenv(EnvPort)
	})

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte(EnvModel+"=/from/dotenv.json\n"+EnvPort+"=9090\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := Load()
	assert.Equal(t, "/from/dotenv.json", cfg.ModelPath)
	assert.Equal(t, 9090, cfg.Port)
}
