package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "mediator"
)

// Collector owns the Prometheus instruments for one mediator.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventsNotified  *prometheus.CounterVec
}

// NewCollector creates the instruments under the given subsystem and
// registers them on reg. A nil reg falls back to prometheus.DefaultRegisterer.
func NewCollector(subsystem string, reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of requests sent through the mediator",
			},
			[]string{"request_type", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Request handling duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"request_type"},
		),
		eventsNotified: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_notified_total",
				Help:      "Total number of events delivered to listeners",
			},
			[]string{"listener", "event_type"},
		),
	}

	for _, col := range []prometheus.Collector{c.requestsTotal, c.requestDuration, c.eventsNotified} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordRequest records one request execution.
func (c *Collector) RecordRequest(requestType string, seconds float64, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	c.requestsTotal.WithLabelValues(requestType, status).Inc()
	c.requestDuration.WithLabelValues(requestType).Observe(seconds)
}

// RecordNotification records one event delivered to a listener.
func (c *Collector) RecordNotification(listener, eventType string) {
	c.eventsNotified.WithLabelValues(listener, eventType).Inc()
}
