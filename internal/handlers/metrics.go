package handlers

import "github.com/prometheus/client_golang/prometheus"

type FormMetrics struct {
	SubscribeRequests *prometheus.CounterVec
	SubmitRequests    *prometheus.CounterVec
}

func NewFormMetrics() *FormMetrics {
	return &FormMetrics{
		SubscribeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_api_subscribe_requests_total",
			Help: "Newsletter signup requests by outcome",
		}, []string{"status"}),
		SubmitRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_api_submit_requests_total",
			Help: "Story submission requests by outcome",
		}, []string{"status"}),
	}
}

// Collectors returns the metrics for registration with a service registry.
func (m *FormMetrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{m.SubscribeRequests, m.SubmitRequests}
}

func (m *FormMetrics) IncSubscribe(status string) {
	if m == nil || m.SubscribeRequests == nil {
		return
	}

	m.SubscribeRequests.WithLabelValues(status).Inc()
}

func (m *FormMetrics) IncSubmit(status string) {
	if m == nil || m.SubmitRequests == nil {
		return
	}

	m.SubmitRequests.WithLabelValues(status).Inc()
}
