package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"TrendBoard/internal/metrics"
)

// Entry is a cached value together with the time it was fetched.
type Entry struct {
	Value     []byte
	FetchedAt time.Time
}

// Store persists cache entries. Implementations copy values in and out so
// callers never share memory with the store.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	// Purge removes entries fetched before the given instant and reports how many went.
	Purge(ctx context.Context, before time.Time) (int, error)
	Close() error
}

// Cache applies a staleness threshold on top of a Store. Store failures are
// logged and behave like a miss.
type Cache struct {
	name   string
	store  Store
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Cache. name labels metrics and log lines.
func New(name string, store Store, maxAge time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		name:   name,
		store:  store,
		maxAge: maxAge,
		logger: logger.With(zap.String("cache", name)),
		now:    time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// MaxAge returns the age after which entries are treated as stale.
func (c *Cache) MaxAge() time.Duration { return c.maxAge }

// Get returns the value under key if it is no older than the staleness threshold.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	e, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		metrics.CacheLookups.WithLabelValues(c.name, "error").Inc()
		return nil, false
	case !ok:
		metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
		return nil, false
	case c.now().Sub(e.FetchedAt) > c.maxAge:
		metrics.CacheLookups.WithLabelValues(c.name, "stale").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
	return e.Value, true
}

// Put stores value under key stamped with the current time.
func (c *Cache) Put(ctx context.Context, key string, value []byte) {
	e := Entry{Value: value, FetchedAt: c.now()}
	if err := c.store.Set(ctx, key, e); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// PurgeStale drops entries older than the staleness threshold.
func (c *Cache) PurgeStale(ctx context.Context) (int, error) {
	return c.store.Purge(ctx, c.now().Add(-c.maxAge))
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
