package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	flightsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocketsim_flights_total",
			Help: "Total number of simulated flights.",
		},
		[]string{"scheme", "termination"},
	)

	invalidRocketsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rocketsim_invalid_rockets_total",
			Help: "Total number of dispersed rockets which failed validation.",
		},
	)

	flightDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rocketsim_flight_duration_seconds",
			Help:    "Wall clock duration of a simulated flight in seconds.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		},
		[]string{"scheme"},
	)

	apogeeMeters = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rocketsim_apogee_meters",
			Help:    "Apogee of the simulated flights in meters.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 14),
		},
	)
)

func init() {
	prometheus.MustRegister(flightsTotal)
	prometheus.MustRegister(invalidRocketsTotal)
	prometheus.MustRegister(flightDurationSeconds)
	prometheus.MustRegister(apogeeMeters)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFlight records a finished flight.
func ObserveFlight(scheme, termination string, duration time.Duration, apogee float64) {
	flightsTotal.WithLabelValues(scheme, termination).Inc()
	flightDurationSeconds.WithLabelValues(scheme).Observe(duration.Seconds())
	apogeeMeters.Observe(apogee)
}

// ObserveInvalidRocket records a rocket which could not be flown.
func ObserveInvalidRocket() {
	invalidRocketsTotal.Inc()
}
