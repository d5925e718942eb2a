package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"TrendBoard/internal/cache"
	"TrendBoard/internal/metrics"
	"TrendBoard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.PricePoint
	Err   error
	calls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many times FetchDailyBars ran.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, lookbackYears int) ([]model.PricePoint, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return append([]model.PricePoint(nil), m.Bars...), nil
	}
	return generateMockBars(m.Price, lookbackYears*252), nil
}

func generateMockBars(basePrice float64, count int) []model.PricePoint {
	bars := make([]model.PricePoint, count)
	today := model.TradingDate(time.Now())
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PricePoint{
			Date:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// HistoryLoader loads daily price history for a symbol through a cache.
type HistoryLoader struct {
	Fetcher       HistoryFetcher
	LookbackYears int
	cache         *cache.Cache
	logger        *zap.Logger
}

// NewHistoryLoader creates a new HistoryLoader. The loader owns c.
func NewHistoryLoader(fetcher HistoryFetcher, c *cache.Cache, lookbackYears int, logger *zap.Logger) *HistoryLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryLoader{
		Fetcher:       fetcher,
		LookbackYears: lookbackYears,
		cache:         c,
		logger:        logger,
	}
}

// Cache exposes the loader's cache for maintenance tasks.
func (l *HistoryLoader) Cache() *cache.Cache { return l.cache }

func (l *HistoryLoader) cacheKey(symbol string) string {
	return fmt.Sprintf("history:%s:%s:%dy", l.Fetcher.Name(), symbol, l.LookbackYears)
}

// LoadHistory returns the ordered daily series for symbol, or None when the
// symbol is empty, unknown or the fetch fails. Only non-empty results are cached.
func (l *HistoryLoader) LoadHistory(ctx context.Context, symbol string) optional.Option[model.PriceSeries] {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return optional.None[model.PriceSeries]()
	}
	key := l.cacheKey(symbol)

	if raw, ok := l.cache.Get(ctx, key); ok {
		var series model.PriceSeries
		switch err := json.Unmarshal(raw, &series); {
		case err != nil:
			l.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		case series.Empty():
			l.logger.Warn("discarding empty cache entry", zap.String("key", key))
		default:
			return optional.Some(series)
		}
	}

	source := l.Fetcher.Name()
	bars, err := l.Fetcher.FetchDailyBars(ctx, symbol, l.LookbackYears)
	if err != nil {
		metrics.Fetches.WithLabelValues(source, "error").Inc()
		l.logger.Warn("history fetch failed",
			zap.String("symbol", symbol), zap.String("source", source), zap.Error(err))
		return optional.None[model.PriceSeries]()
	}

	series := model.NewPriceSeries(symbol, bars)
	if series.Empty() {
		metrics.Fetches.WithLabelValues(source, "empty").Inc()
		l.logger.Warn("history fetch returned no usable bars",
			zap.String("symbol", symbol), zap.String("source", source), zap.Int("raw_bars", len(bars)))
		return optional.None[model.PriceSeries]()
	}
	metrics.Fetches.WithLabelValues(source, "ok").Inc()

	if raw, err := json.Marshal(series); err == nil {
		l.cache.Put(ctx, key, raw)
	}
	l.logger.Debug("history loaded", zap.String("symbol", symbol), zap.Int("bars", series.Len()))
	return optional.Some(series)
}
