package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendBoard/internal/cache"
	"TrendBoard/internal/collector"
	"TrendBoard/internal/config"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestNewFetcher(t *testing.T) {
	tests := []struct {
		provider string
		setup    func(*config.Config)
		want     string
	}{
		{"yahoo", nil, "yahoo"},
		{"mock", nil, "mock"},
		{"rest", func(c *config.Config) { c.DataSource.BaseURL = "http://bars.internal" }, "rest"},
		{"polygon", func(c *config.Config) { c.DataSource.PolygonAPIKey = "pk" }, "polygon"},
		{"alpaca", func(c *config.Config) {
			c.DataSource.AlpacaKeyID = "id"
			c.DataSource.AlpacaSecretKey = "secret"
		}, "alpaca"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := defaultConfig(t)
			cfg.DataSource.Provider = tt.provider
			if tt.setup != nil {
				tt.setup(cfg)
			}
			f, err := newFetcher(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Name())
		})
	}
}

func TestNewFetcher_YahooBaseURLOverride(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.DataSource.BaseURL = "http://yahoo.local"
	f, err := newFetcher(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://yahoo.local", f.(*collector.YahooFetcher).BaseURL)
}

func TestNewFetcher_Unknown(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.DataSource.Provider = "bloomberg"
	_, err := newFetcher(cfg)
	assert.Error(t, err)
}

func TestNewLoaders_SQLiteBackend(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.DataSource.Provider = "mock"
	cfg.Cache.Backend = "sqlite"
	cfg.Cache.SQLitePath = filepath.Join(t.TempDir(), "data", "cache.db")

	ld, err := newLoaders(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer ld.Close()

	require.Len(t, ld.stores, 2)
	assert.IsType(t, &cache.SQLiteStore{}, ld.stores[0])
	assert.True(t, ld.history.LoadHistory(context.Background(), "SPY").IsSome())
	assert.Equal(t, time.Hour, ld.history.Cache().MaxAge())
}

func TestNewStore_Backends(t *testing.T) {
	cfg := defaultConfig(t)

	st, err := newStore(context.Background(), cfg, "history", time.Hour, nil)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryStore{}, st)

	cfg.Cache.Backend = "none"
	st, err = newStore(context.Background(), cfg, "history", time.Hour, nil)
	require.NoError(t, err)
	assert.IsType(t, &cache.NoopStore{}, st)

	cfg.Cache.Backend = "redis"
	cfg.Cache.RedisAddr = ""
	_, err = newStore(context.Background(), cfg, "history", time.Hour, nil)
	assert.Error(t, err)
}
