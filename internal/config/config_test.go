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
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "library-catalog-service", cfg.App.Name)
	assert.Equal(t, "/api/videos", cfg.Provider.Videos.Endpoint)
	assert.Equal(t, "/feed", cfg.Provider.Books.Endpoint)
	assert.Equal(t, 100, cfg.Provider.Podcasts.MaxPages)
	assert.Equal(t, 20, cfg.Cache.MaxEntries)
	assert.Equal(t, 20*time.Minute, cfg.Cache.TTL.Global)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL.Paginated)
	assert.Equal(t, 3*time.Minute, cfg.Cache.TTL.Filtered)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL.Default)
	assert.Equal(t, "pt-BR", cfg.Search.Locale)
	assert.Equal(t, 10, cfg.History.Limit)
	assert.Equal(t, 30*24*time.Hour, cfg.History.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 9090
cache:
  ttl:
    filtered: 45s
provider:
  books:
    base_url: http://books.internal
`), 0o600))

	t.Setenv("APP_SEARCH_LOCALE", "en-US")
	t.Setenv("APP_HISTORY_LIMIT", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 45*time.Second, cfg.Cache.TTL.Filtered)
	assert.Equal(t, 20*time.Minute, cfg.Cache.TTL.Global, "unset keys keep defaults")
	assert.Equal(t, "http://books.internal", cfg.Provider.Books.BaseURL)
	assert.Equal(t, "en-US", cfg.Search.Locale)
	assert.Equal(t, 5, cfg.History.Limit)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())
}
