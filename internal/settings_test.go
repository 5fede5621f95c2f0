package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	require.Empty(t, s.Source)
	require.Empty(t, s.QueueNames)
	require.False(t, s.RequestLogging.Enabled)
	require.Equal(t, "debug", s.RequestLogging.Level)
	require.Equal(t, DefaultMessageTemplate, s.RequestLogging.Template)
}

func TestLoadSettings(t *testing.T) {
	t.Run("no file yields defaults", func(t *testing.T) {
		s, err := LoadSettings("")
		require.NoError(t, err)
		require.Equal(t, DefaultSettings(), s)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yml"))
		require.Error(t, err)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logging.yml")
		require.NoError(t, os.WriteFile(path, []byte(`
source: logging-config.yml
queue_names:
  - app
  - audit
request_logging:
  enabled: true
  logger: access
  level: info
`), 0o600))

		s, err := LoadSettings(path)
		require.NoError(t, err)
		require.Equal(t, "logging-config.yml", s.Source)
		require.Equal(t, []string{"app", "audit"}, s.QueueNames)
		require.True(t, s.RequestLogging.Enabled)
		require.Equal(t, "access", s.RequestLogging.Logger)
		require.Equal(t, "info", s.RequestLogging.Level)
		require.Equal(t, DefaultMessageTemplate, s.RequestLogging.Template)
	})

	t.Run("json file by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logging.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"source": "cfg.json"}`), 0o600))

		s, err := LoadSettings(path)
		require.NoError(t, err)
		require.Equal(t, "cfg.json", s.Source)
	})

	t.Run("environment overrides files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logging.yml")
		require.NoError(t, os.WriteFile(path, []byte("source: from-file.yml\n"), 0o600))

		t.Setenv("LOGGING_SOURCE", "from-env.yml")
		t.Setenv("LOGGING_REQUEST_LOGGING_ENABLED", "true")
		t.Setenv("LOGGING_REQUEST_LOGGING_LEVEL", "warn")

		s, err := LoadSettings(path)
		require.NoError(t, err)
		require.Equal(t, "from-env.yml", s.Source)
		require.True(t, s.RequestLogging.Enabled)
		require.Equal(t, "warn", s.RequestLogging.Level)
	})

	t.Run("queue-name list is comma-separated in the environment", func(t *testing.T) {
		t.Setenv("LOGGING_QUEUE_NAMES", "app, audit,access")

		s, err := LoadSettings("")
		require.NoError(t, err)
		require.Equal(t, []string{"app", "audit", "access"}, s.QueueNames)
	})
}
