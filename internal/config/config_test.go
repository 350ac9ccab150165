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
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8090", cfg.Listen)
	assert.Equal(t, "calsync.db", cfg.DatabasePath)
	assert.Equal(t, 15*time.Second, cfg.CallTimeout.Std())
	assert.Equal(t, 5*time.Minute, cfg.TokenSkew.Std())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
listen: ":9000"
database_path: /var/lib/calsync/calsync.db
call_timeout: 30s
token_skew: 2m
google:
  client_id: google-id
  client_secret: google-secret
outlook:
  client_id: outlook-id
  client_secret: outlook-secret
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "/var/lib/calsync/calsync.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout.Std())
	assert.Equal(t, 2*time.Minute, cfg.TokenSkew.Std())
	assert.Equal(t, "google-id", cfg.Google.ClientID)
	assert.Equal(t, "outlook-secret", cfg.Outlook.ClientSecret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9000"
call_timeout: 30s
`), 0o644))

	t.Setenv("CALSYNC_LISTEN", ":7000")
	t.Setenv("CALSYNC_CALL_TIMEOUT", "45s")
	t.Setenv("CALSYNC_OUTLOOK_CLIENT_ID", "env-outlook-id")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, 45*time.Second, cfg.CallTimeout.Std())
	assert.Equal(t, "env-outlook-id", cfg.Outlook.ClientID)
	// File values without overrides survive.
	assert.Equal(t, "calsync.db", cfg.DatabasePath)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("call_timeout: soon\n"), 0o644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoad_InvalidEnvDuration(t *testing.T) {
	t.Setenv("CALSYNC_TOKEN_SKEW", "never")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALSYNC_TOKEN_SKEW")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("call_timeout: 0s\n"), 0o644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "call_timeout")
}
