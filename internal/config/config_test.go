package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("yaml values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: "9090"
jwt:
  secret: from-file
import:
  max_rows: 200
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "from-file", cfg.JWT.Secret)
		assert.Equal(t, 200, cfg.Import.MaxRows)
		assert.Equal(t, "scholaris", cfg.Database.DBName)
	})

	t.Run("environment wins over yaml", func(t *testing.T) {
		path := writeConfig(t, "jwt:\n  secret: from-file\n")
		t.Setenv("JWT_SECRET", "from-env")
		t.Setenv("DB_MAX_CONNS", "7")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.JWT.Secret)
		assert.Equal(t, 7, cfg.Database.MaxConns)
	})

	t.Run("missing secret is rejected", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret is required")
	})

	t.Run("bad duration is rejected", func(t *testing.T) {
		path := writeConfig(t, "jwt:\n  secret: x\n  access_token_expiration: soon\n")
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT access token expiration")
	})
}

func TestPublicBaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL())

	cfg.Server.BaseURL = "https://scholars.example.gov"
	assert.Equal(t, "https://scholars.example.gov", cfg.PublicBaseURL())
}
