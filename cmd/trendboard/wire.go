package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"TrendBoard/internal/cache"
	"TrendBoard/internal/collector"
	"TrendBoard/internal/config"
)

// newFetcher selects the price history provider.
func newFetcher(cfg *config.Config) (collector.HistoryFetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "yahoo":
		f := collector.NewYahooFetcher(cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, nil
	case "polygon":
		return collector.NewPolygonFetcher(ds.PolygonAPIKey)
	case "alpaca":
		return collector.NewAlpacaFetcher(ds.AlpacaKeyID, ds.AlpacaSecretKey, ds.AlpacaDataURL)
	case "rest":
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy), nil
	case "mock":
		return &collector.MockFetcher{Price: ds.MockPrice}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", ds.Provider)
	}
}

// newStore opens the backing store for one named cache. Each cache gets its
// own store so purging one never touches the other.
func newStore(ctx context.Context, cfg *config.Config, name string, ttl time.Duration, logger *zap.Logger) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryStore(), nil
	case "none":
		return cache.NewNoopStore(), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.Cache.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return cache.NewSQLiteStore(cfg.Cache.SQLitePath, name, logger)
	case "redis":
		return cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:      cfg.Cache.RedisAddr,
			Password:  cfg.Cache.RedisPassword,
			DB:        cfg.Cache.RedisDB,
			PrefixKey: cfg.Cache.RedisPrefix + ":" + name + ":",
			TTL:       ttl,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// loaders holds both loaders and the stores they own.
type loaders struct {
	history   *collector.HistoryLoader
	directory *collector.DirectoryLoader
	stores    []cache.Store
}

func newLoaders(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*loaders, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}

	l := &loaders{}
	historyStore, err := newStore(ctx, cfg, "history", cfg.History.CacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("init history cache: %w", err)
	}
	l.stores = append(l.stores, historyStore)

	directoryStore, err := newStore(ctx, cfg, "directory", cfg.Directory.CacheTTL, logger)
	if err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("init directory cache: %w", err)
	}
	l.stores = append(l.stores, directoryStore)

	l.history = collector.NewHistoryLoader(fetcher,
		cache.New("history", historyStore, cfg.History.CacheTTL, logger),
		cfg.History.LookbackYears, logger)
	l.directory = collector.NewDirectoryLoader(cfg.Directory.FeedURL, cfg.Proxy,
		cache.New("directory", directoryStore, cfg.Directory.CacheTTL, logger), logger)

	logger.Info("loaders ready",
		zap.String("provider", fetcher.Name()),
		zap.String("cache_backend", cfg.Cache.Backend))
	return l, nil
}

func (l *loaders) Close() error {
	var errs []error
	for _, s := range l.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
