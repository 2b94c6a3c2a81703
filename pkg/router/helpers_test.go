package router

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/vango-dev/routesync/pkg/addressbar"
	"github.com/vango-dev/routesync/pkg/host"
	"github.com/vango-dev/routesync/pkg/mapper"
)

// recordHandler keeps every log record for inspection.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) warnings() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.records {
		if r.Level == slog.LevelWarn {
			out = append(out, r.Message)
		}
	}
	return out
}

type fixture struct {
	t      *testing.T
	host   *host.Controller
	bar    *addressbar.Memory
	router *Router
	logs   *recordHandler
}

// build wires a host with the default state, an in-memory address bar at
// start and a router, then initializes the host.
func build(t *testing.T, start string, signals map[string][]host.Action, opts ...Option) (*fixture, error) {
	t.Helper()

	f := &fixture{
		t:    t,
		host: host.New(host.WithState(map[string]any{"hello": "world"}), host.WithSignals(signals)),
		bar:  addressbar.NewMemory(""),
		logs: &recordHandler{},
	}
	if start != "" {
		f.bar.Push(start)
	}

	all := append([]Option{WithLogger(slog.New(f.logs))}, opts...)
	r, err := New(f.host, f.bar, mapper.New(), all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.router = r

	return f, f.host.Initialize()
}

func setup(t *testing.T, signals map[string][]host.Action, opts ...Option) *fixture {
	t.Helper()
	f, err := build(t, "", signals, opts...)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return f
}

// trigger simulates user navigation to an origin-relative URL.
func (f *fixture) trigger(u string) error {
	f.t.Helper()
	_, err := f.bar.Emit(u)
	return err
}

func (f *fixture) mustTrigger(urls ...string) {
	f.t.Helper()
	for _, u := range urls {
		if err := f.trigger(u); err != nil {
			f.t.Fatalf("trigger(%q): %v", u, err)
		}
	}
}

func (f *fixture) signal(name string, payload map[string]any) error {
	f.t.Helper()
	run, err := f.host.GetSignal(name)
	if err != nil {
		return err
	}
	return run(payload)
}

func (f *fixture) mustSignal(name string, payload map[string]any) {
	f.t.Helper()
	if err := f.signal(name, payload); err != nil {
		f.t.Fatalf("signal %s: %v", name, err)
	}
}

func counter(n *int) host.Action {
	return func(*host.Context) error {
		*n++
		return nil
	}
}

func origin(path string) string {
	return addressbar.DefaultOrigin + path
}
