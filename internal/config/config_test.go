package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_GATEWAY_API_KEY", "")
	t.Setenv("LOVABLE_API_KEY", "")

	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, 9871, cfg.Server.Port)
	assert.Equal(t, "google/gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, "https://ai.gateway.lovable.dev/v1", cfg.AI.BaseURL)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, ":9871", cfg.Addr())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 8080
ai:
  model: test/model
  api_key: from-file
  timeout: 5s
database:
  driver: sqlite
  dsn: ":memory:"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("AI_GATEWAY_API_KEY", "")
	t.Setenv("LOVABLE_API_KEY", "")
	t.Setenv("PORT", "9000")

	cfg := Load(path)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "test/model", cfg.AI.Model)
	assert.Equal(t, "from-file", cfg.AI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadInvalidFileWarns(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: [not, a, port\ndatabase:\n\tdriver: sqlite\n"), 0o644))
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load(path)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Contains(t, buf.String(), "config file invalid")
	assert.Contains(t, buf.String(), path)
}

func TestAPIKeyEnvPrecedence(t *testing.T) {
	t.Setenv("LOVABLE_API_KEY", "legacy")
	t.Setenv("AI_GATEWAY_API_KEY", "")
	assert.Equal(t, "legacy", Load("none.yaml").AI.APIKey)

	t.Setenv("AI_GATEWAY_API_KEY", "primary")
	assert.Equal(t, "primary", Load("none.yaml").AI.APIKey)
}

func TestOpenGormDBSQLite(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = ":memory:"

	db, err := cfg.OpenGormDB()
	require.NoError(t, err)
	require.NoError(t, db.Exec("SELECT 1").Error)
}

func TestOpenGormDBUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "oracle"

	_, err := cfg.OpenGormDB()
	assert.ErrorContains(t, err, "unsupported database driver")
}
