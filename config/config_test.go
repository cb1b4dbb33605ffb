package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := GetConfig("")
		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.HTTP.PortBase)
		assert.Equal(t, "http", cfg.Registry.Driver)
		assert.Equal(t, "plain", cfg.Webhook.Envelope)
		assert.Equal(t, 10*time.Second, cfg.Bridge.ReinitBackoff)
		assert.Equal(t, 60*time.Second, cfg.Redis.HeartbeatTTL)
	})

	t.Run("file then environment", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "bridge.yaml")
		require.NoError(t, os.WriteFile(file, []byte(`
session:
  id: 4
registry:
  driver: file
  file_path: hooks.yaml
webhook:
  envelope: waha
  timeout: 3s
`), 0644))
		t.Setenv("BRIDGE_SESSION_ID", "7")
		t.Setenv("BRIDGE_REDIS_ENABLED", "true")

		cfg, err := GetConfig(file)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Session.ID)
		assert.Equal(t, "file", cfg.Registry.Driver)
		assert.Equal(t, "hooks.yaml", cfg.Registry.FilePath)
		assert.Equal(t, "waha", cfg.Webhook.Envelope)
		assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 3007, cfg.Port())
		require.NoError(t, cfg.Validate())
	})

	t.Run("error - explicit file missing", func(t *testing.T) {
		_, err := GetConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := Config{
		Session:  SessionConfig{ID: 1},
		Registry: RegistryConfig{Driver: "http", URL: "http://x"},
		Webhook:  WebhookConfig{Envelope: "plain"},
	}
	require.NoError(t, base.Validate())

	c := base
	c.Session.ID = 0
	assert.Error(t, c.Validate())

	c = base
	c.Registry.Driver = "postgres"
	assert.Error(t, c.Validate())

	c = base
	c.Webhook.Envelope = "xml"
	assert.Error(t, c.Validate())
}
