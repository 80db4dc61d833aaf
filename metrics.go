package retrograde

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the simulation metrics.
type Metrics struct {
	ticks            prometheus.Counter
	intersectionMiss prometheus.Counter
	stepDuration     prometheus.Histogram
	bodyDistance     *prometheus.GaugeVec
	eulerDrift       *prometheus.GaugeVec
}

// NewMetrics returns new metrics registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "retrograde_ticks_total",
			Help: "Total number of simulation ticks",
		}),
		intersectionMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "retrograde_intersection_miss_total",
			Help: "Ticks where the line of sight did not cross the circle",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "retrograde_step_duration_seconds",
			Help:    "Time spent advancing the system and building the frame",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		bodyDistance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retrograde_body_distance_meters",
			Help: "Distance of each body to the central body",
		}, []string{"body"}),
		eulerDrift: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retrograde_euler_drift_meters",
			Help: "Distance between each body and its RK4 reference propagation",
		}, []string{"body"}),
	}
	reg.MustRegister(m.ticks, m.intersectionMiss, m.stepDuration, m.bodyDistance, m.eulerDrift)
	return m
}

// RecordTick records a tick which took the provided duration.
func (m *Metrics) RecordTick(duration time.Duration, hasIntersection bool) {
	m.ticks.Inc()
	m.stepDuration.Observe(duration.Seconds())
	if !hasIntersection {
		m.intersectionMiss.Inc()
	}
}

// RecordDistance sets the distance of a body to the central body.
func (m *Metrics) RecordDistance(body string, meters float64) {
	m.bodyDistance.WithLabelValues(body).Set(meters)
}

// RecordDrift sets the distance of a body to its reference propagation.
func (m *Metrics) RecordDrift(body string, meters float64) {
	m.eulerDrift.WithLabelValues(body).Set(meters)
}

// MetricsHandler returns the HTTP handler exposing the metrics of g.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
