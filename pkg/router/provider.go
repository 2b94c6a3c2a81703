package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/vango-dev/routesync/pkg/telemetry"
)

// Provider exposes navigation to host actions. It is registered on the
// host as "router".
type Provider struct {
	r *Router
}

// GetURL returns the absolute URL.
func (p *Provider) GetURL() string {
	return p.r.bar.Value()
}

// GetPath returns the URL below the base, without the query string.
func (p *Provider) GetPath() string {
	value := strings.Replace(p.r.bar.Value(), p.r.bar.Origin()+p.r.baseURL, "", 1)
	path, _, _ := strings.Cut(value, "?")
	return path
}

// GetOrigin returns the address bar origin.
func (p *Provider) GetOrigin() string {
	return p.r.bar.Origin()
}

// GetValues matches the current URL again and returns its values. It
// returns nil when the URL is outside the base or matches no route.
func (p *Provider) GetValues() (map[string]any, error) {
	route, values, err := p.r.Match(p.r.bar.Value())
	if err != nil || route == "" {
		return nil, err
	}
	return values, nil
}

// SetURL pushes base+url without routing it.
func (p *Provider) SetURL(u string) {
	p.r.setURL(u, telemetry.SourceProvider)
}

// GoTo pushes base+url and routes it.
func (p *Provider) GoTo(u string) error {
	p.r.bar.Push(p.r.baseURL + u)
	p.r.metrics.RecordURLUpdate(telemetry.SourceProvider, telemetry.ModePush)
	return p.r.apply(p.r.bar.Value(), nil)
}

// Redirect replaces the current entry with base+url and routes it.
func (p *Provider) Redirect(u string) error {
	p.r.bar.Replace(p.r.baseURL + u)
	p.r.metrics.RecordURLUpdate(telemetry.SourceProvider, telemetry.ModeReplace)
	return p.r.apply(p.r.bar.Value(), nil)
}

// RedirectToSignal runs signal with payload. Signals not bound to a route
// are logged and still run.
func (p *Provider) RedirectToSignal(signal string, payload map[string]any) error {
	if _, ok := p.r.signals.Lookup(signal); !ok {
		p.r.logger.Warn(fmt.Sprintf("redirectToSignal: signal '%s' not bound to route.", signal),
			"signal", signal)
	}
	run, err := p.r.host.GetSignal(signal)
	if err != nil {
		return err
	}
	return run(payload)
}

// Reload routes the current URL again. The active route is forgotten first
// so that its signal runs even when the payload is unchanged.
func (p *Provider) Reload() (err error) {
	_, span := p.r.tracer.Start(context.Background(), telemetry.SpanReload)
	defer func() { telemetry.End(span, err) }()

	p.r.active = activeRoute{}
	p.r.bar.Replace(p.r.bar.Value())
	p.r.metrics.RecordURLUpdate(telemetry.SourceProvider, telemetry.ModeReplace)
	return p.r.apply(p.r.bar.Value(), nil)
}
