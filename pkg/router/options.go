package router

import (
	"log/slog"

	"github.com/vango-dev/routesync/pkg/routes"
	"github.com/vango-dev/routesync/pkg/telemetry"
)

// Options configures a Router.
type Options struct {
	// Routes is the route tree.
	Routes []routes.Route

	// BaseURL prefixes every routed URL. A missing leading slash is added.
	// With OnlyHash and no BaseURL, the pathname of the address bar at
	// construction time is used.
	BaseURL string

	// AllowEscape lets unmatched URLs through without a warning.
	AllowEscape bool

	// OnlyHash routes on the fragment only.
	OnlyHash bool

	// PreventAutostart skips routing the initial URL.
	PreventAutostart bool

	// FilterFalsy drops falsy mapped values from rendered URLs.
	FilterFalsy bool

	Logger  *slog.Logger
	Metrics *telemetry.Metrics
	Tracer  *telemetry.Tracer
}

// Option configures a Router.
type Option func(*Options)

// WithOptions replaces all options.
func WithOptions(o Options) Option {
	return func(opts *Options) {
		*opts = o
	}
}

// WithRoutes appends routes to the route tree.
func WithRoutes(r ...routes.Route) Option {
	return func(o *Options) {
		if o.Routes == nil {
			o.Routes = []routes.Route{}
		}
		o.Routes = append(o.Routes, r...)
	}
}

// WithBaseURL sets the base URL.
func WithBaseURL(base string) Option {
	return func(o *Options) {
		o.BaseURL = base
	}
}

// WithAllowEscape lets unmatched URLs through.
func WithAllowEscape(allow bool) Option {
	return func(o *Options) {
		o.AllowEscape = allow
	}
}

// WithOnlyHash routes on the fragment only.
func WithOnlyHash(onlyHash bool) Option {
	return func(o *Options) {
		o.OnlyHash = onlyHash
	}
}

// WithPreventAutostart skips routing the initial URL.
func WithPreventAutostart(prevent bool) Option {
	return func(o *Options) {
		o.PreventAutostart = prevent
	}
}

// WithFilterFalsy drops falsy mapped values from rendered URLs.
func WithFilterFalsy(filter bool) Option {
	return func(o *Options) {
		o.FilterFalsy = filter
	}
}

// WithLogger sets the logger receiving warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithTracer enables OpenTelemetry spans.
func WithTracer(t *telemetry.Tracer) Option {
	return func(o *Options) {
		o.Tracer = t
	}
}

// normalizeBaseURL ensures a leading slash on non-empty base URLs.
func normalizeBaseURL(base string) string {
	if base == "" || base[0] == '/' {
		return base
	}
	return "/" + base
}
