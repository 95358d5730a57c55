// Package metrics provides Prometheus instrumentation for moviemate.
//
// Metrics are registered on the default registerer at package init and exposed
// through Handler at GET /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LibraryTitles is the number of titles per list (want, watched)
var LibraryTitles = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "moviemate_library_titles",
	Help: "Number of titles on each user list.",
}, []string{"list"})

// StoreChanges counts successful user state mutations by kind
var StoreChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviemate_store_changes_total",
	Help: "User state mutations by kind.",
}, []string{"kind"})

// NavigationChanges counts active-state changes by the kind of state shown.
// Pops are counted under "back".
var NavigationChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviemate_navigation_changes_total",
	Help: "Navigation changes by target kind.",
}, []string{"kind"})

// StaleResults counts fetch results discarded because navigation moved on
var StaleResults = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moviemate_stale_results_total",
	Help: "Detail loads discarded because the user navigated away.",
})

// TMDBRequests counts metadata API attempts by outcome
var TMDBRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviemate_tmdb_requests_total",
	Help: "TMDB API request attempts by status class.",
}, []string{"status"})

// ProgressLookups counts episode list lookups by cache result (hit, miss, error)
var ProgressLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviemate_progress_lookups_total",
	Help: "Show episode list lookups by result.",
}, []string{"result"})

// HTTPRequests counts API requests by method, route pattern and status
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviemate_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "path", "status"})

// HTTPDuration tracks API latency
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "moviemate_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

// Handler returns the Prometheus HTTP handler for /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// StatusClass buckets an HTTP status code, e.g. 404 becomes "4xx"
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	}
	return "error"
}
