package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trendboard_cache_lookups_total", Help: "Cache lookups by result"},
		[]string{"cache", "result"},
	)
	Fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trendboard_fetches_total", Help: "Upstream fetches by source and outcome"},
		[]string{"source", "outcome"},
	)
	DirectoryFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "trendboard_directory_fallbacks_total", Help: "Times the static symbol list was served"},
	)
	Analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trendboard_analyses_total", Help: "Completed analyses by trend signal"},
		[]string{"signal"},
	)
)

func init() {
	prometheus.MustRegister(CacheLookups, Fetches, DirectoryFallbacks, Analyses)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
