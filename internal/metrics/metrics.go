package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/statuswatch/statuswatch/internal/severity"
)

// Metrics wraps Prometheus collectors for statuswatch.
type Metrics struct {
	registry                 *prometheus.Registry
	cycleDurationSeconds     prometheus.Histogram
	fetchErrorsTotal         *prometheus.CounterVec
	providerSeverity         *prometheus.GaugeVec
	combinedSeverityGauge    prometheus.Gauge
	affectedComponentsGauge  prometheus.Gauge
	activeIncidentsGauge     *prometheus.GaugeVec
	lastSuccessfulCycleGauge prometheus.Gauge
}

// New initializes a Metrics registry with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		cycleDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "statuswatch_cycle_duration_seconds",
			Help:    "Duration of status poll cycles in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		fetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statuswatch_fetch_errors_total",
			Help: "Total sub-fetch failures after retries, by provider and endpoint.",
		}, []string{"provider", "endpoint"}),
		providerSeverity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "statuswatch_provider_severity",
			Help: "Current severity rank per provider (0 unknown, 1 operational, 2 minor, 3 major, 4 critical).",
		}, []string{"provider"}),
		combinedSeverityGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statuswatch_combined_severity",
			Help: "Worst-case severity rank across all providers.",
		}),
		affectedComponentsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statuswatch_affected_components",
			Help: "Number of components with a degraded status across all providers.",
		}),
		activeIncidentsGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "statuswatch_active_incidents",
			Help: "Unresolved incidents per provider.",
		}, []string{"provider"}),
		lastSuccessfulCycleGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statuswatch_last_successful_cycle_timestamp",
			Help: "Unix timestamp of the last fully successful cycle.",
		}),
	}

	registry.MustRegister(
		m.cycleDurationSeconds,
		m.fetchErrorsTotal,
		m.providerSeverity,
		m.combinedSeverityGauge,
		m.affectedComponentsGauge,
		m.activeIncidentsGauge,
		m.lastSuccessfulCycleGauge,
	)

	return m
}

// Handler returns a Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCycleDuration records the duration of a completed cycle.
func (m *Metrics) ObserveCycleDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.cycleDurationSeconds.Observe(duration.Seconds())
}

// IncFetchErrors increments the sub-fetch failure counter.
func (m *Metrics) IncFetchErrors(provider, endpoint string) {
	if m == nil {
		return
	}
	m.fetchErrorsTotal.WithLabelValues(provider, endpoint).Inc()
}

// SetProviderSeverity sets the severity gauge for one provider.
func (m *Metrics) SetProviderSeverity(provider string, sev severity.Severity) {
	if m == nil {
		return
	}
	m.providerSeverity.WithLabelValues(provider).Set(float64(sev))
}

// SetCombinedSeverity sets the combined severity gauge.
func (m *Metrics) SetCombinedSeverity(sev severity.Severity) {
	if m == nil {
		return
	}
	m.combinedSeverityGauge.Set(float64(sev))
}

// SetAffectedComponents sets the affected component gauge.
func (m *Metrics) SetAffectedComponents(count int) {
	if m == nil {
		return
	}
	m.affectedComponentsGauge.Set(float64(count))
}

// SetActiveIncidents sets the active incident gauge for one provider.
func (m *Metrics) SetActiveIncidents(provider string, count int) {
	if m == nil {
		return
	}
	m.activeIncidentsGauge.WithLabelValues(provider).Set(float64(count))
}

// SetLastSuccessfulCycleTimestamp sets the last fully successful cycle time.
func (m *Metrics) SetLastSuccessfulCycleTimestamp(t time.Time) {
	if m == nil {
		return
	}
	m.lastSuccessfulCycleGauge.Set(float64(t.Unix()))
}
