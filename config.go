package routesync

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/routesync/internal/config"
	"github.com/vango-dev/routesync/pkg/addressbar"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the main application configuration.
type Config struct {
	// Routes is the route tree.
	Routes []Route

	// BaseURL is prepended to every routed URL.
	BaseURL string

	// OnlyHash routes the URL fragment only.
	OnlyHash bool

	// AllowEscape lets navigation that matches no route through.
	AllowEscape bool

	// PreventAutostart skips routing the initial URL of a session.
	PreventAutostart bool

	// FilterFalsy drops falsy values from URLs built for signals.
	FilterFalsy bool

	// Origin is the origin of memory address bars.
	// Default: addressbar.DefaultOrigin.
	Origin string

	// Signals are the actions of each signal. Signals bound in Routes but
	// missing here get an action that only logs the payload.
	Signals map[string][]Action

	// State is the initial state of each session. It is deep-copied per
	// session.
	State map[string]any

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Registry receives the router metrics. Nil disables metrics.
	Registry *prometheus.Registry

	// TracerName names the OpenTelemetry tracer. Empty disables tracing.
	TracerName string
}

// DefaultConfig returns a configuration with no routes.
func DefaultConfig() Config {
	return Config{Origin: addressbar.DefaultOrigin}
}

// LoadConfig reads a route file from a local path or an s3:// URI and
// returns the matching Config. client is only used for S3 and may be nil
// otherwise.
func LoadConfig(ctx context.Context, source string, client config.ObjectGetter) (Config, error) {
	f, err := config.Open(ctx, source, client)
	if err != nil {
		return Config{}, err
	}
	return FromFile(f)
}

// FromFile converts a decoded route file into a Config.
func FromFile(f *config.File) (Config, error) {
	tree, err := f.Tree()
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	cfg.Routes = tree
	cfg.BaseURL = f.BaseURL
	cfg.OnlyHash = f.OnlyHash
	cfg.AllowEscape = f.AllowEscape
	cfg.PreventAutostart = f.PreventAutostart
	cfg.FilterFalsy = f.FilterFalsy
	return cfg, nil
}
