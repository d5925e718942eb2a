package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTFetcher_FetchDailyBars(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"timestamp": 1717459200, "open": 10, "high": 11, "low": 9, "close": 10.5, "volume": 100},
			{"timestamp": 1717372800, "open": 9, "high": 10, "low": 8, "close": 9.5, "volume": 200}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "")
	f.now = func() time.Time { return time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC) }

	bars, err := f.FetchDailyBars(context.Background(), "BTC-USD", 5)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "symbol=BTC-USD&from=2019-06-04", gotQuery)
	require.Len(t, bars, 2)
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, int64(200), bars[1].Volume)
}

func TestRESTFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "").FetchDailyBars(context.Background(), "AAPL", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
