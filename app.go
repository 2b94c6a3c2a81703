package routesync

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/addressbar"
	"github.com/vango-dev/routesync/pkg/host"
	"github.com/vango-dev/routesync/pkg/mapper"
	"github.com/vango-dev/routesync/pkg/middleware"
	"github.com/vango-dev/routesync/pkg/router"
	"github.com/vango-dev/routesync/pkg/routes"
	"github.com/vango-dev/routesync/pkg/telemetry"
)

// =============================================================================
// App Type
// =============================================================================

// App holds a validated route configuration and creates sessions from it.
// Each session pairs one address bar with its own state tree and router.
//
// Create an App with routesync.New():
//
//	app, err := routesync.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(app.Run(ctx, ":8080"))
type App struct {
	config  Config
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	http    *middleware.Metrics
	mapper  *mapper.Mapper
	table   *routes.Table
	index   routes.SignalIndex

	// probe answers Match and SignalURL. It never routes.
	mu    sync.Mutex
	probe *Session
}

// New validates cfg and creates an App.
func New(cfg Config) (*App, error) {
	if cfg.Origin == "" {
		cfg.Origin = addressbar.DefaultOrigin
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Routes == nil {
		return nil, errors.Newf(errors.CodeRoutesNotArray, "routes must be defined as an array.")
	}
	table, err := routes.Compile(cfg.Routes)
	if err != nil {
		return nil, err
	}
	index, err := routes.IndexSignals(table)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		logger: logger,
		mapper: mapper.New(mapper.WithLogger(logger)),
		table:  table,
		index:  index,
	}
	if cfg.Registry != nil {
		a.metrics = telemetry.NewMetrics(telemetry.WithRegistry(cfg.Registry))
		a.http = middleware.Prometheus(middleware.WithRegistry(cfg.Registry))
	}
	if cfg.TracerName != "" {
		a.tracer = telemetry.NewTracer(cfg.TracerName)
	}

	a.probe, err = a.newSession(addressbar.NewMemory(cfg.Origin), true)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// NewSession creates a state tree and a router bound to bar, then
// initializes them. Unless PreventAutostart is set the current URL of bar
// is routed immediately.
func (a *App) NewSession(bar addressbar.Addressbar) (*Session, error) {
	return a.newSession(bar, a.config.PreventAutostart)
}

func (a *App) newSession(bar addressbar.Addressbar, preventAutostart bool) (*Session, error) {
	h := host.New(
		host.WithState(copyState(a.config.State)),
		host.WithSignals(a.signals()),
		host.WithLogger(a.logger),
	)

	r, err := router.New(h, bar, a.mapper,
		router.WithRoutes(a.config.Routes...),
		router.WithBaseURL(a.config.BaseURL),
		router.WithOnlyHash(a.config.OnlyHash),
		router.WithAllowEscape(a.config.AllowEscape),
		router.WithPreventAutostart(preventAutostart),
		router.WithFilterFalsy(a.config.FilterFalsy),
		router.WithLogger(a.logger.With("component", "router")),
		router.WithMetrics(a.metrics),
		router.WithTracer(a.tracer),
	)
	if err != nil {
		return nil, err
	}

	if err := h.Initialize(); err != nil {
		return nil, err
	}
	return &Session{Host: h, Router: r, Bar: bar}, nil
}

// signals returns the configured signals plus a logging signal for every
// bound signal without actions.
func (a *App) signals() map[string][]Action {
	out := make(map[string][]Action, len(a.config.Signals)+len(a.index))
	for name, actions := range a.config.Signals {
		out[name] = actions
	}
	for name := range a.index {
		if _, ok := out[name]; !ok {
			out[name] = []Action{a.logSignal}
		}
	}
	return out
}

func (a *App) logSignal(ctx *Context) error {
	a.logger.Info("signal", "name", ctx.Name, "props", ctx.Props)
	return nil
}

// =============================================================================
// Queries
// =============================================================================

// Match is the result of matching a URL.
type Match struct {
	Route  string         `json:"route"`
	Signal string         `json:"signal,omitempty"`
	Values map[string]any `json:"values"`
}

// Match resolves url against the route table without routing it. It
// returns nil when nothing matches.
func (a *App) Match(url string) (*Match, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	route, values, err := a.probe.Router.Match(url)
	if err != nil {
		return nil, errors.Newf(errors.CodeUnparsableURL, "Could not parse url (%v).", err).Wrap(err)
	}
	if route == "" {
		return nil, nil
	}

	m := &Match{Route: route, Values: values}
	if e, ok := a.table.Get(route); ok {
		m.Signal = e.Signal
	}
	if m.Values == nil {
		m.Values = map[string]any{}
	}
	return m, nil
}

// SignalURL renders the URL of the route bound to signal.
func (a *App) SignalURL(signal string, payload map[string]any) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.probe.Router.SignalURL(signal, payload)
}

// Routes returns the flattened route paths in match order.
func (a *App) Routes() []string {
	return a.table.Paths()
}

// BoundSignals returns the bound signals, sorted.
func (a *App) BoundSignals() []string {
	out := make([]string, 0, len(a.index))
	for name := range a.index {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Config returns the App configuration.
func (a *App) Config() Config {
	return a.config
}

// =============================================================================
// Session
// =============================================================================

// Session is one address bar synchronized with one state tree.
type Session struct {
	Host   *host.Controller
	Router *router.Router
	Bar    addressbar.Addressbar
}

// emitter is an address bar that can simulate user navigation.
type emitter interface {
	Emit(url string) (prevented bool, err error)
}

// Navigate simulates user navigation. The bar must support it, as
// addressbar.Memory does.
func (s *Session) Navigate(url string) error {
	e, ok := s.Bar.(emitter)
	if !ok {
		return errors.Newf(errors.CodeInvalidOption, "address bar %T cannot simulate navigation", s.Bar)
	}
	_, err := e.Emit(url)
	return err
}

// Signal runs a named signal.
func (s *Session) Signal(name string, payload map[string]any) error {
	run, err := s.Host.GetSignal(name)
	if err != nil {
		return err
	}
	return run(payload)
}

// Get reads the state tree.
func (s *Session) Get(path string) any {
	return s.Host.GetState(path)
}

// URL returns the current address bar value.
func (s *Session) URL() string {
	return s.Bar.Value()
}

func copyState(v map[string]any) map[string]any {
	if v == nil {
		return nil
	}
	out := make(map[string]any, len(v))
	for k, e := range v {
		out[k] = copyValue(e)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyState(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}
