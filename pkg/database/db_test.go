package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")

	db, err := OpenAndMigrate(Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	// idempotent
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('fonts', 'foundries')`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestDefaultConfigEnv(t *testing.T) {
	t.Setenv("FONTPAIR_DB_PATH", "/tmp/x.db")
	assert.Equal(t, "/tmp/x.db", DefaultConfig().Path)
}
