package router

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/addressbar"
	"github.com/vango-dev/routesync/pkg/compute"
	"github.com/vango-dev/routesync/pkg/deps"
	"github.com/vango-dev/routesync/pkg/host"
	"github.com/vango-dev/routesync/pkg/routes"
	"github.com/vango-dev/routesync/pkg/telemetry"
)

// RoutedSignal is the host signal writing URL values to state.
const RoutedSignal = "router.routed"

// ProviderName is the name the Provider is registered under on the host.
const ProviderName = "router"

// Mapper matches URLs against route templates and renders them back.
type Mapper interface {
	// Map returns the first of routes matching url and its values. An
	// empty route means no match.
	Map(url string, routes []string) (route string, values map[string]any, err error)
	Stringify(route string, values map[string]any) (string, error)
}

// Host is the state container the router drives.
type Host interface {
	GetState(path string) any
	GetSignal(name string) (host.SignalFunc, error)
	RunSignal(name string, actions []host.Action, payload map[string]any) error
	Provide(name string, p any)
	OnInitialized(fn host.InitializedListener)
	OnStart(fn host.StartListener)
	OnFlush(fn host.FlushListener)
}

// State is the lifecycle stage of a Router.
type State int

const (
	StateUninitialized State = iota
	StateActive
)

// String returns the state name.
func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "uninitialized"
}

type activeRoute struct {
	Path    string
	Payload map[string]any
}

// Router synchronizes the address bar with the host state.
type Router struct {
	host   Host
	bar    addressbar.Addressbar
	mapper Mapper
	opts   Options

	// baseURL is the effective base, including "#" with OnlyHash.
	baseURL string

	table   *routes.Table
	signals routes.SignalIndex
	active  activeRoute
	state   State

	// signalPushes counts URL writes made on signal start.
	signalPushes int

	provider *Provider
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer
}

// New creates a Router and hooks it into the host lifecycle. The route
// table is compiled when the host emits initialized.
func New(h Host, bar addressbar.Addressbar, m Mapper, opts ...Option) (*Router, error) {
	if m == nil {
		return nil, errors.Newf(errors.CodeInvalidOption, "mapper option must be provided.")
	}
	if h == nil || bar == nil {
		return nil, errors.Newf(errors.CodeInvalidOption, "host and address bar must be provided.")
	}

	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	r := &Router{
		host:    h,
		bar:     bar,
		mapper:  m,
		opts:    o,
		logger:  o.Logger,
		metrics: o.Metrics,
		tracer:  o.Tracer,
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "router")
	}

	base := normalizeBaseURL(o.BaseURL)
	if base == "" && o.OnlyHash {
		base = bar.Pathname()
	}
	if o.OnlyHash {
		base += "#"
	}
	r.baseURL = base

	r.provider = &Provider{r: r}
	h.Provide(ProviderName, r.provider)
	h.OnInitialized(r.initialize)

	return r, nil
}

// State returns the lifecycle stage.
func (r *Router) State() State {
	return r.state
}

// BaseURL returns the effective base URL.
func (r *Router) BaseURL() string {
	return r.baseURL
}

// Provider returns the navigation provider.
func (r *Router) Provider() *Provider {
	return r.provider
}

// Table returns the compiled route table, or nil before initialization.
func (r *Router) Table() *routes.Table {
	return r.table
}

func (r *Router) initialize() error {
	if r.opts.Routes == nil {
		return errors.Newf(errors.CodeRoutesNotArray, "routes must be defined as an array.")
	}
	if err := r.compile(r.opts.Routes); err != nil {
		return err
	}

	r.bar.OnChange(r.onURLChange)
	r.host.OnStart(r.onSignalStart)
	r.host.OnFlush(r.onFlush)
	r.state = StateActive

	r.logger.Debug("router initialized", "routes", r.table.Len(), "base", r.baseURL)

	if !r.opts.PreventAutostart {
		return r.apply(r.bar.Value(), nil)
	}
	return nil
}

func (r *Router) compile(tree []routes.Route) error {
	table, err := routes.Compile(tree)
	if err != nil {
		return err
	}
	signals, err := routes.IndexSignals(table)
	if err != nil {
		return err
	}
	r.table = table
	r.signals = signals
	return nil
}

// AddRoutes prepends routes to the route tree and recompiles. On error the
// previous table stays in place.
func (r *Router) AddRoutes(tree []routes.Route) error {
	combined := make([]routes.Route, 0, len(tree)+len(r.opts.Routes))
	combined = append(combined, tree...)
	combined = append(combined, r.opts.Routes...)

	if err := r.compile(combined); err != nil {
		return err
	}
	r.opts.Routes = combined
	return nil
}

// SignalURL renders the URL of the route bound to signal.
func (r *Router) SignalURL(signal string, payload map[string]any) (string, error) {
	if r.table == nil {
		if err := r.compile(r.opts.Routes); err != nil {
			return "", err
		}
	}
	path, ok := r.signals.Lookup(signal)
	if !ok {
		return "", errors.Newf(errors.CodeMissingSignal, "signal '%s' not bound to route.", signal)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	u, err := r.mapper.Stringify(path, payload)
	if err != nil {
		return "", err
	}
	return r.baseURL + u, nil
}

// Match resolves raw (absolute or origin-relative) against the route table
// without routing it. route is empty when raw is outside the base or
// matches nothing.
func (r *Router) Match(raw string) (route string, values map[string]any, err error) {
	if r.table == nil {
		if err := r.compile(r.opts.Routes); err != nil {
			return "", nil, err
		}
	}
	u, ok := r.routablePart(raw)
	if !ok {
		return "", nil, nil
	}
	return r.mapper.Map(u, r.table.Paths())
}

// routablePart strips the origin and the base URL. It reports false for
// URLs outside the base.
func (r *Router) routablePart(raw string) (string, bool) {
	path := strings.Replace(raw, r.bar.Origin(), "", 1)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if r.opts.OnlyHash && !strings.Contains(path, "#") {
		path += "#/"
	}
	if !strings.HasPrefix(path, r.baseURL) {
		return "", false
	}
	return path[len(r.baseURL):], true
}

func (r *Router) onURLChange(e *addressbar.ChangeEvent) error {
	return r.apply(e.URL, e)
}

// apply matches raw and applies the matched route. e is nil for
// programmatic navigation.
func (r *Router) apply(raw string, e *addressbar.ChangeEvent) (err error) {
	_, span := r.tracer.Start(context.Background(), telemetry.SpanURLChange, telemetry.AttrURL.String(raw))
	defer func() {
		if err != nil {
			r.metrics.RecordNavigation(telemetry.ResultError)
		}
		telemetry.End(span, err)
	}()

	u, ok := r.routablePart(raw)
	if !ok {
		r.metrics.RecordNavigation(telemetry.ResultIgnored)
		return nil
	}

	route, values, err := r.mapper.Map(u, r.table.Paths())
	if err != nil {
		return errors.Newf(errors.CodeUnparsableURL, "Could not parse url (%v).", err).Wrap(err)
	}

	if route == "" {
		r.metrics.RecordNavigation(telemetry.ResultUnmatched)
		if r.opts.AllowEscape {
			return nil
		}
		if e != nil {
			e.PreventDefault()
		}
		r.logger.Warn(fmt.Sprintf("No route matched %s, navigation was prevented. "+
			"Please verify url or catch unmatched routes with a \"/*\" route.", u), "url", u)
		return nil
	}

	if e != nil {
		e.PreventDefault()
		// The bar drops prevented navigation; keep it unless a signal
		// start already wrote the routed URL.
		pushes := r.signalPushes
		defer func() {
			if err == nil && r.signalPushes == pushes {
				r.bar.Push(e.URL)
				r.metrics.RecordURLUpdate(telemetry.SourceNavigation, telemetry.ModePush)
			}
		}()
	}
	span.SetAttributes(telemetry.AttrRoute.String(route))

	entry, _ := r.table.Get(route)
	payload := prune(values)

	if entry.HasStateMapping() || len(entry.ComputedRMapping) > 0 {
		routed := func(ctx *host.Context) error {
			return r.writeRouted(ctx, entry, values)
		}
		if err := r.host.RunSignal(RoutedSignal, []host.Action{routed}, nil); err != nil {
			return err
		}
	}

	if len(entry.PropsMapping) > 0 {
		getters := compute.Context{Props: payload, State: r.host.GetState}
		mapped := make(map[string]any, len(entry.PropsMapping))
		for _, key := range entry.PropsMapping {
			p, err := entry.Map[key].(*compute.PathValue).Path(getters)
			if err != nil {
				return err
			}
			v := values[key]
			if isFalsy(v) {
				v = nil
			}
			mapped[p] = v
		}
		payload = mapped
	}

	var prevSignal string
	if prev, ok := r.table.Get(r.active.Path); ok {
		prevSignal = prev.Signal
	}
	if entry.Signal != "" &&
		(prevSignal != entry.Signal || len(deps.ChangedProps(payload, r.active.Payload)) > 0) {
		run, err := r.host.GetSignal(entry.Signal)
		if err != nil {
			return err
		}
		span.SetAttributes(telemetry.AttrSignal.String(entry.Signal))
		r.metrics.RecordSignal(entry.Signal)
		if err := run(payload); err != nil {
			return err
		}
	}

	r.metrics.RecordNavigation(telemetry.ResultMatched)
	r.active = activeRoute{Path: route, Payload: payload}
	return nil
}

// writeRouted is the body of RoutedSignal.
func (r *Router) writeRouted(ctx *host.Context, entry *routes.Entry, values map[string]any) error {
	for _, key := range entry.StateMapping {
		p, err := ctx.ResolvePath(entry.Map[key].(*compute.PathValue))
		if err != nil {
			return err
		}
		v := values[key]
		if isFalsy(v) {
			v = ctx.Get(p)
		}
		ctx.Set(p, v)
	}

	for _, path := range sortedKeys(entry.ComputedRMapping) {
		t := entry.ComputedRMapping[path]
		if err := t.Run(r.host.GetState, values); err != nil {
			return err
		}
		r.metrics.RecordRecomputation(entry.Path)
		ctx.Set(path, t.Value())
	}
	return nil
}

func (r *Router) onSignalStart(name string, payload map[string]any) (err error) {
	path, ok := r.signals.Lookup(name)
	if !ok {
		return nil
	}

	_, span := r.tracer.Start(context.Background(), telemetry.SpanSignalStart,
		telemetry.AttrSignal.String(name), telemetry.AttrRoute.String(path))
	defer func() { telemetry.End(span, err) }()

	entry, _ := r.table.Get(path)

	values := payload
	if entry.Map != nil {
		getters := compute.Context{Props: payload, State: r.host.GetState}
		values = make(map[string]any, len(entry.Map))
		for _, key := range sortedKeys(entry.Map) {
			v, err := entry.Map[key].Resolve(getters)
			if err != nil {
				return err
			}
			if r.opts.FilterFalsy && isFalsy(v) {
				continue
			}
			values[key] = v
		}
	}

	u, err := r.mapper.Stringify(path, values)
	if err != nil {
		return err
	}
	r.setURL(decodeURI(u), telemetry.SourceSignal)

	r.active = activeRoute{Path: path, Payload: payload}
	return nil
}

func (r *Router) onFlush(changes []deps.Change) (err error) {
	entry, ok := r.table.Get(r.active.Path)
	if !ok || (len(entry.StateMapping) == 0 && len(entry.ComputedMapping) == 0) {
		return nil
	}

	_, span := r.tracer.Start(context.Background(), telemetry.SpanFlush,
		telemetry.AttrRoute.String(entry.Path), telemetry.AttrChanges.Int(len(changes)))
	defer func() { telemetry.End(span, err) }()

	getters := compute.Context{Props: r.active.Payload, State: r.host.GetState}
	resolved := make(map[string]any, len(entry.Map))
	update := false

	for _, key := range sortedKeys(entry.Map) {
		var v any
		if t, ok := entry.ComputedMapping[key]; ok {
			if t.ShouldRun(changes) {
				if err := t.Run(r.host.GetState, r.active.Payload); err != nil {
					return err
				}
				r.metrics.RecordRecomputation(entry.Path)
				update = true
			}
			v = t.Value()
		} else {
			value := entry.Map[key]
			if pv, ok := value.(*compute.PathValue); ok && pv.Source() == compute.SourceState && contains(entry.StateMapping, key) {
				p, err := pv.Path(getters)
				if err != nil {
					return err
				}
				update = update || deps.HasChangedPath(changes, p)
			}
			if v, err = value.Resolve(getters); err != nil {
				return err
			}
		}

		if r.opts.FilterFalsy && isFalsy(v) {
			continue
		}
		// The state tree stores explicit nils; the URL omits them.
		if v != nil {
			resolved[key] = v
		}
	}

	span.SetAttributes(telemetry.AttrUpdated.Bool(update))
	if !update {
		return nil
	}

	u, err := r.mapper.Stringify(entry.Path, resolved)
	if err != nil {
		return err
	}
	r.setURL(u, telemetry.SourceFlush)
	return nil
}

// setURL pushes base+url, or "/" when both are empty.
func (r *Router) setURL(u, source string) {
	target := r.baseURL + u
	if target == "" {
		target = "/"
	}
	r.bar.Push(target)
	if source == telemetry.SourceSignal {
		r.signalPushes++
	}
	r.metrics.RecordURLUpdate(source, telemetry.ModePush)
	r.logger.Debug("url pushed", "url", target, "source", source)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
