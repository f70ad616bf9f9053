package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, Load(""))
	cfg := Get()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.EnableCORS)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2*time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, filepath.Join("./data", "archive.db"), cfg.Database.DatabasePath)

	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)

	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("ARCHIVE_PORT", "9090")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("LOG_LEVEL", "debug")

	require.NoError(t, Load(""))
	cfg := Get()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched fields keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestFileLayerSitsBetweenDefaultsAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 3000
  host: 127.0.0.1
llm:
  model: gpt-4
`), 0o644))
	// Environment wins over the file for the port
	t.Setenv("ARCHIVE_PORT", "4000")

	require.NoError(t, Load(path))
	cfg := Get()

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "gpt-4", cfg.LLM.Model)
	// Fields absent from both layers keep their defaults
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("ARCHIVE_PORT", "70000")
	assert.Error(t, Load(""))

	t.Setenv("ARCHIVE_PORT", "8080")
	t.Setenv("DATABASE_TYPE", "oracle")
	assert.Error(t, Load(""))
}

func TestLoadRejectsUnsupportedFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = 1"), 0o644))
	assert.Error(t, Load(path))
}

func TestExplicitDatabasePathIsKept(t *testing.T) {
	t.Setenv("ARCHIVE_DATABASE_PATH", "/var/lib/archive/custom.db")
	require.NoError(t, Load(""))
	assert.Equal(t, "/var/lib/archive/custom.db", Get().Database.DatabasePath)
}
