// Package telemetry provides Prometheus metrics and OpenTelemetry spans for
// the router.
//
// Both are optional: a nil *Metrics records nothing and a nil *Tracer
// starts no-op spans.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Navigation results.
const (
	ResultMatched   = "matched"
	ResultUnmatched = "unmatched"
	ResultIgnored   = "ignored"
	ResultError     = "error"
)

// URL update sources and modes.
const (
	SourceSignal     = "signal"
	SourceFlush      = "flush"
	SourceProvider   = "provider"
	SourceNavigation = "navigation"

	ModePush    = "push"
	ModeReplace = "replace"
)

// MetricsConfig configures the router metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routesync").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the router metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routesync",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the router collectors.
type Metrics struct {
	navigations   *prometheus.CounterVec
	signals       *prometheus.CounterVec
	urlUpdates    *prometheus.CounterVec
	recomputation *prometheus.CounterVec
}

// NewMetrics registers the router collectors.
//
// Metrics collected:
//   - routesync_navigations_total: URL changes by result
//   - routesync_signals_total: route signals invoked from URL changes
//   - routesync_url_updates_total: URL writes by source and mode
//   - routesync_recomputations_total: computed mapping re-runs by route
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of address bar changes handled",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		signals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signals_total",
			Help:        "Total number of route signals invoked by navigation",
			ConstLabels: config.ConstLabels,
		}, []string{"signal"}),

		urlUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "url_updates_total",
			Help:        "Total number of URL writes",
			ConstLabels: config.ConstLabels,
		}, []string{"source", "mode"}),

		recomputation: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recomputations_total",
			Help:        "Total number of computed mapping runs",
			ConstLabels: config.ConstLabels,
		}, []string{"route"}),
	}
}

// RecordNavigation counts a handled URL change.
func (m *Metrics) RecordNavigation(result string) {
	if m != nil {
		m.navigations.WithLabelValues(result).Inc()
	}
}

// RecordSignal counts a signal invoked by navigation.
func (m *Metrics) RecordSignal(signal string) {
	if m != nil {
		m.signals.WithLabelValues(signal).Inc()
	}
}

// RecordURLUpdate counts a URL write.
func (m *Metrics) RecordURLUpdate(source, mode string) {
	if m != nil {
		m.urlUpdates.WithLabelValues(source, mode).Inc()
	}
}

// RecordRecomputation counts a computed mapping run.
func (m *Metrics) RecordRecomputation(route string) {
	if m != nil {
		m.recomputation.WithLabelValues(route).Inc()
	}
}
