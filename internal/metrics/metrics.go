// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultCached  = "cached"
)

// Registry is private to the service so tests and embedding binaries do not
// collide with the global default registerer.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	SecretFetches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secret_greeter_secret_fetches_total",
			Help: "Secret bundle fetches by provider and result",
		},
		[]string{"provider", "result"},
	)

	HealthChecks = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secret_greeter_health_checks_total",
			Help: "Liveness queries issued by /health by result",
		},
		[]string{"result"},
	)

	RateLimited = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secret_greeter_rate_limited_total",
			Help: "Requests rejected by the token bucket",
		},
		[]string{"route"},
	)

	HTTPRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secret_greeter_http_requests_total",
			Help: "HTTP requests served by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
