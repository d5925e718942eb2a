package cache

import (
	"context"
	"time"
)

// NoopStore never retains anything; used when caching is disabled.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Get(_ context.Context, _ string) (Entry, bool, error) { return Entry{}, false, nil }
func (n *NoopStore) Set(_ context.Context, _ string, _ Entry) error       { return nil }
func (n *NoopStore) Purge(_ context.Context, _ time.Time) (int, error)    { return 0, nil }
func (n *NoopStore) Close() error                                         { return nil }
