package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Server.HTTPAddr, cfg.Server.HTTPAddr)
	assert.Equal(t, def.Ingest.BatchSize, cfg.Ingest.BatchSize)
	assert.Equal(t, 60*time.Second, cfg.Ingest.Timeout)
	assert.False(t, cfg.Admin.Enabled)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fontpair.yaml")
	content := `
server:
  http_addr: ":9999"
db:
  path: /tmp/from-file.db
ingest:
  timeout: 5s
admin:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("FONTPAIR_DB_PATH", "/tmp/from-env.db")
	t.Setenv("FONTPAIR_GOOGLE_API_KEY", "secret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, "/tmp/from-env.db", cfg.DB.Path)
	assert.Equal(t, "secret", cfg.Ingest.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Ingest.Timeout)
	assert.True(t, cfg.Admin.Enabled)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Ingest.BatchSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DB.Path = " "
	assert.Error(t, cfg.Validate())
}
