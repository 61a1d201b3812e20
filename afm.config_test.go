package afm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultStorageDrv, cfg.Storage.Driver)
	assert.True(t, cfg.Webhook.VerifySignatures)
	assert.Equal(t, WebSubDefaultLease, cfg.Webhook.LeaseSeconds)
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `log:
  level: debug
  format: console
storage:
  driver: filesystem
  dsn: /var/lib/agents
webhook:
  verify_signatures: false
runner:
  name: openai
variables:
  MODEL_NAME: gpt-4o
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, LogFormatConsole, cfg.Log.Format)
	assert.Equal(t, StorageDriverNameFilesystem, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/agents", cfg.Storage.DSN)
	assert.False(t, cfg.Webhook.VerifySignatures)
	assert.Equal(t, "openai", cfg.Runner.Name)
	assert.Equal(t, "gpt-4o", cfg.Variables["MODEL_NAME"])
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("AFM_LOG_LEVEL", "warn")
	t.Setenv("AFM_STORAGE_DRIVER", "postgres")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, StorageDriverNamePostgres, cfg.Storage.Driver)
}

func TestLoadConfigEnvMultiWordKeys(t *testing.T) {
	t.Setenv("AFM_WEBHOOK_VERIFY_SIGNATURES", "false")
	t.Setenv("AFM_WEBHOOK_LEASE_SECONDS", "120")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.False(t, cfg.Webhook.VerifySignatures)
	assert.Equal(t, 120, cfg.Webhook.LeaseSeconds)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConfigLookup(t *testing.T) {
	cfg := &Config{Variables: map[string]string{"FROM_CONFIG": "cfg-value"}}
	t.Setenv("FROM_ENV_ONLY", "env-value")
	t.Setenv("FROM_CONFIG", "env-shadowed")

	lookup := cfg.Lookup()

	v, ok := lookup.Get("FROM_CONFIG")
	require.True(t, ok)
	assert.Equal(t, "cfg-value", v)

	v, ok = lookup.Get("FROM_ENV_ONLY")
	require.True(t, ok)
	assert.Equal(t, "env-value", v)

	_, ok = lookup.Get("NOWHERE")
	assert.False(t, ok)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Format: LogFormatJSON})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(0)) // InfoLevel

	logger, err = NewLogger(LogConfig{Level: "not-a-level", Format: LogFormatConsole})
	require.NoError(t, err)
	require.NotNil(t, logger)
}
