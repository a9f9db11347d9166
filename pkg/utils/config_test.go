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
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "mongo", cfg.Database().Driver)
}

func TestLoadConfigEnvOverridesDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_PAGE_SIZE=3\nCATALOG_DB_DRIVER=sqlite\n"), 0o644))
	t.Setenv("CATALOG_DB_DRIVER", "mongo")
	t.Cleanup(func() { os.Unsetenv("CATALOG_PAGE_SIZE") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.PageSize)
	assert.Equal(t, "mongo", cfg.DBDriver)
}

func TestLoadConfigRejectsBadPageSize(t *testing.T) {
	t.Setenv("CATALOG_PAGE_SIZE", "0")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger("loud", false)
	assert.Error(t, err)

	l, err := NewLogger("debug", true)
	require.NoError(t, err)
	assert.NotNil(t, l)
}
