package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quill.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	t.Run("MinimalWithDefaults", func(t *testing.T) {
		cfg, err := NewConfig(writeConfig(t, `
token_secret = "0123456789abcdef0123456789abcdef"
`))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr)
		assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "./data/quill.db", cfg.Database.Path)
		assert.Equal(t, "./data/files/public", cfg.Storage.PublicDir)
		assert.Zero(t, cfg.TokenLifetime())
	})

	t.Run("FullConfig", func(t *testing.T) {
		cfg, err := NewConfig(writeConfig(t, `
listen_addr  = "0.0.0.0:9000"
base_url     = "https://edit.example.com"
token_secret = "0123456789abcdef0123456789abcdef"
token_ttl    = "2h"

editor {
  autoload_elements = ["video-player", "lrn-table"]
  offset_left       = 60
  app_keys = {
    youtube = "yt-key"
    giphy   = "giphy-key"
  }
}

storage {
  public_dir  = "/srv/files/public"
  private_dir = "/srv/files/private"
}

database {
  driver = "postgres"
  host   = "localhost"
  port   = 5432
  user   = "quill"
  dbname = "quill"
}
`))
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, cfg.TokenLifetime())
		assert.Equal(t, []string{"video-player", "lrn-table"}, cfg.Editor.AutoloadElements)
		assert.Equal(t, 60, cfg.Editor.OffsetLeft)
		assert.Equal(t, "yt-key", cfg.Editor.AppKeys["youtube"])
		assert.Equal(t, "postgres", cfg.Database.Driver)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		_, err := NewConfig(writeConfig(t, `listen_addr = ":8000"`))
		assert.Error(t, err)
	})

	t.Run("ShortSecret", func(t *testing.T) {
		_, err := NewConfig(writeConfig(t, `token_secret = "short"`))
		assert.Error(t, err)
	})

	t.Run("BadDriver", func(t *testing.T) {
		_, err := NewConfig(writeConfig(t, `
token_secret = "0123456789abcdef0123456789abcdef"
database {
  driver = "oracle"
}
`))
		assert.Error(t, err)
	})

	t.Run("BadTTL", func(t *testing.T) {
		_, err := NewConfig(writeConfig(t, `
token_secret = "0123456789abcdef0123456789abcdef"
token_ttl    = "sometime"
`))
		assert.Error(t, err)
	})
}
