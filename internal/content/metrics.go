package content

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks cache effectiveness and upstream failures for the two
// content feeds. A nil receiver is a no-op so tests can skip wiring.
type Metrics struct {
	CacheLookups   *prometheus.CounterVec
	UpstreamErrors *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_api_content_cache_lookups_total",
				Help: "Content cache lookups by key and outcome",
			},
			[]string{"key", "outcome"},
		),
		UpstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_api_content_upstream_errors_total",
				Help: "Upstream content fetch failures by cache key",
			},
			[]string{"key"},
		),
	}
}

// Collectors returns the metrics for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.CacheLookups, m.UpstreamErrors}
}

func (m *Metrics) IncCache(key, outcome string) {
	if m == nil || m.CacheLookups == nil {
		return
	}
	m.CacheLookups.WithLabelValues(key, outcome).Inc()
}

func (m *Metrics) IncUpstreamError(key string) {
	if m == nil || m.UpstreamErrors == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(key).Inc()
}
