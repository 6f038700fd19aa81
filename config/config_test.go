package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.URL)
	assert.Equal(t, "alphavantage", cfg.Market.WatchlistProvider)
	assert.Equal(t, "twelvedata", cfg.Market.HoldingsProvider)
	assert.Equal(t, 60*time.Second, cfg.Market.RefreshInterval)
	assert.Equal(t, 60*time.Minute, cfg.Session.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.News.TTL)
	assert.Empty(t, cfg.DSN())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, `
server:
  port: "9000"
  allowed_origins: ["http://localhost:5173"]
market:
  watchlist_provider: yahoo
  holdings_provider: yahoo
  quote_ttl: 30s
  refresh_interval: 2m
database:
  host: db
  user: app
  password: pw
  name: stocks
`)
	t.Setenv("PORT", "9100")
	t.Setenv("SERIES_CACHE_TTL", "15m")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Market.QuoteTTL)
	assert.Equal(t, 15*time.Minute, cfg.Market.SeriesTTL)
	assert.Equal(t, 2*time.Minute, cfg.Market.RefreshInterval)
	assert.Equal(t, "host=db user=app password=pw dbname=stocks port=6543 sslmode=disable TimeZone=UTC", cfg.DSN())
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeFile(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "")
	t.Setenv("TWELVE_DATA_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.ErrorContains(t, cfg.Validate(), "alpha_vantage_key")

	cfg.Market.AlphaVantageKey = "av"
	assert.ErrorContains(t, cfg.Validate(), "twelve_data_key")

	cfg.Market.TwelveDataKey = "td"
	assert.NoError(t, cfg.Validate())

	cfg.Market.HoldingsProvider = "bloomberg"
	assert.ErrorContains(t, cfg.Validate(), "unknown market provider")

	cfg.Market.HoldingsProvider = "yahoo"
	cfg.Market.RefreshInterval = 100 * time.Millisecond
	assert.Error(t, cfg.Validate())
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := InitRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	mr.Close()
	_, err = InitRedis(context.Background(), mr.Addr(), "", 0)
	assert.Error(t, err)
}
