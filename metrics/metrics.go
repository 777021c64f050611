package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the forecast service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	Requests     *prometheus.CounterVec
	ColdStarts   *prometheus.CounterVec
	FitRetries   prometheus.Counter
	FitFallbacks prometheus.Counter
	FitDuration  *prometheus.HistogramVec
}

// New creates the collectors on a private registry so tests and multiple servers in one
// process never collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demand_forecast_requests_total",
				Help: "Forecast requests by entity role and outcome",
			},
			[]string{"role", "outcome"},
		),
		ColdStarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demand_forecast_cold_starts_total",
				Help: "Forecasts fit on the synthetic zero series, by reason",
			},
			[]string{"reason"},
		),
		FitRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "demand_forecast_fit_retries_total",
			Help: "Fits retried with the relaxed configuration",
		}),
		FitFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "demand_forecast_fit_fallbacks_total",
			Help: "Fits that exceeded the time budget and fell back to the cold-start forecast",
		}),
		FitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "demand_forecast_fit_duration_seconds",
				Help:    "Time spent fitting and predicting",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"role"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
