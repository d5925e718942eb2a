package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"TrendBoard/internal/model"
)

// HistoryFetcher retrieves daily bars covering the last lookbackYears years.
// Bars may arrive unordered or with gaps; HistoryLoader normalizes them.
type HistoryFetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, lookbackYears int) ([]model.PricePoint, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
