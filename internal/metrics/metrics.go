// Package metrics exports Prometheus instrumentation for provider calls and
// analysis outcomes.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "copy_reviewer"

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
	OutcomeDisabled = "disabled"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	operations       *prometheus.CounterVec
	usageEvents      *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns metrics registered on the default Prometheus registry
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// MustNewMetrics is NewMetrics that panics on registration failure
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m, err := NewMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMetrics creates and registers the collectors on reg. Collectors that
// are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Provider calls by transport, operation and outcome kind.",
		}, []string{"transport", "operation", "outcome"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "call_duration_seconds",
			Help:      "Latency of provider calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		}, []string{"transport", "operation"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Review, improve and analyze operations by outcome.",
		}, []string{"operation", "outcome"}),
		usageEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_events_total",
			Help:      "Usage tracking writes by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{m.providerCalls, m.providerDuration, m.operations, m.usageEvents} {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, fmt.Errorf("register metric: %w", err)
			}
			switch existing := are.ExistingCollector.(type) {
			case *prometheus.CounterVec:
				switch c {
				case m.providerCalls:
					m.providerCalls = existing
				case m.operations:
					m.operations = existing
				case m.usageEvents:
					m.usageEvents = existing
				}
			case *prometheus.HistogramVec:
				m.providerDuration = existing
			}
		}
	}
	return m, nil
}

// ObserveProviderCall records one provider call. outcome is "success" or an
// error kind such as "rate_limit".
func (m *Metrics) ObserveProviderCall(transport, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(transport, operation, outcome).Inc()
	m.providerDuration.WithLabelValues(transport, operation).Observe(d.Seconds())
}

// IncOperation counts a finished review, improve or analyze operation
func (m *Metrics) IncOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// IncUsageEvent counts a usage tracking write
func (m *Metrics) IncUsageEvent(outcome string) {
	if m == nil {
		return
	}
	m.usageEvents.WithLabelValues(outcome).Inc()
}
