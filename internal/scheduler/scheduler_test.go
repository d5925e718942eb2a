package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendBoard/internal/cache"
	"TrendBoard/internal/model"
)

type fakePurger struct {
	calls int
	err   error
}

func (f *fakePurger) PurgeStale(context.Context) (int, error) {
	f.calls++
	return 3, f.err
}

type fakeDirectory struct{ calls int }

func (f *fakeDirectory) ListSymbols(context.Context) model.Directory {
	f.calls++
	return model.Directory{Entries: []model.Symbol{model.NewSymbol("AAPL", "Apple Inc.")}}
}

func TestRegisterAll_SkipsEmptyExpressions(t *testing.T) {
	s := NewScheduler(context.Background(), nil, &fakeDirectory{}, nil)
	require.NoError(t, s.RegisterAll("", ""))
	assert.Equal(t, 0, s.Jobs())
}

func TestRegisterAll_RegistersBoth(t *testing.T) {
	s := NewScheduler(context.Background(), map[string]Purger{"history": &fakePurger{}}, &fakeDirectory{}, nil)
	require.NoError(t, s.RegisterAll("0 */10 * * * *", "0 0 6 * * *"))
	assert.Equal(t, 2, s.Jobs())
}

func TestRegisterAll_InvalidExpression(t *testing.T) {
	s := NewScheduler(context.Background(), nil, nil, nil)
	assert.Error(t, s.RegisterAll("every ten minutes", ""))
}

func TestRunPurgeNow_ContinuesAfterFailure(t *testing.T) {
	bad := &fakePurger{err: errors.New("disk full")}
	good := &fakePurger{}
	s := NewScheduler(context.Background(), map[string]Purger{"a": bad, "b": good}, nil, nil)

	s.RunPurgeNow()
	assert.Equal(t, 1, bad.calls)
	assert.Equal(t, 1, good.calls)
}

func TestRunPurgeNow_DropsStaleEntries(t *testing.T) {
	now := time.Date(2024, 6, 7, 10, 0, 0, 0, time.UTC)
	c := cache.New("history", cache.NewMemoryStore(), time.Hour, nil).WithClock(func() time.Time { return now })
	ctx := context.Background()
	c.Put(ctx, "old", []byte("1"))
	now = now.Add(2 * time.Hour)
	c.Put(ctx, "fresh", []byte("2"))

	NewScheduler(ctx, map[string]Purger{"history": c}, nil, nil).RunPurgeNow()

	_, ok := c.Get(ctx, "fresh")
	assert.True(t, ok)
	now = now.Add(-2 * time.Hour)
	_, ok = c.Get(ctx, "old")
	assert.False(t, ok, "purged entry is gone even when it would read as fresh")
}

func TestRunDirectoryNow(t *testing.T) {
	dir := &fakeDirectory{}
	NewScheduler(context.Background(), nil, dir, nil).RunDirectoryNow()
	assert.Equal(t, 1, dir.calls)
}
