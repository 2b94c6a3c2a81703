package router

import (
	"testing"

	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/addressbar"
	"github.com/vango-dev/routesync/pkg/host"
	"github.com/vango-dev/routesync/pkg/mapper"
	"github.com/vango-dev/routesync/pkg/routes"
)

func TestNewRequiresMapper(t *testing.T) {
	_, err := New(host.New(), addressbar.NewMemory(""), nil)
	if !errors.Is(err, errors.ErrConfig) {
		t.Fatalf("err = %v, want config error", err)
	}
}

func TestAutostart(t *testing.T) {
	count := 0
	f := setup(t, map[string][]host.Action{"test": {counter(&count)}},
		WithRoutes(routes.Route{Path: "/", Signal: "test"}),
	)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if f.router.State() != StateActive {
		t.Errorf("state = %s", f.router.State())
	}
}

func TestPreventAutostart(t *testing.T) {
	count := 0
	setup(t, map[string][]host.Action{"test": {counter(&count)}},
		WithPreventAutostart(true),
		WithRoutes(routes.Route{Path: "/", Signal: "test"}),
	)
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestNestedRoutes(t *testing.T) {
	count := 0
	f := setup(t,
		map[string][]host.Action{
			"foo": {counter(&count)},
			"bar": {counter(&count)},
			"baz": {counter(&count)},
		},
		WithRoutes(
			routes.Route{Path: "/", Signal: "foo"},
			routes.Route{Path: "/bar", Signal: "bar", Routes: []routes.Route{{Path: "/baz", Signal: "baz"}}},
		),
	)
	f.mustTrigger("/bar", "/bar/baz")
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestMissingSignal(t *testing.T) {
	f := setup(t, nil,
		WithPreventAutostart(true),
		WithRoutes(routes.Route{Path: "/", Signal: "test"}),
	)

	err := f.trigger("/")
	var re *errors.RouteError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RouteError", err)
	}
	if want := `The signal on path "test" does not exist, please check path`; re.Message != want {
		t.Errorf("message = %q, want %q", re.Message, want)
	}
}

func TestDuplicateSignal(t *testing.T) {
	_, err := build(t, "", map[string][]host.Action{"test": nil},
		WithRoutes(
			routes.Route{Path: "/", Signal: "test"},
			routes.Route{Path: "/foo", Signal: "test"},
		),
	)
	var re *errors.RouteError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RouteError", err)
	}
	want := "The signal test has already been bound to route /foo. Create a new signal and reuse actions instead if needed."
	if re.Message != want {
		t.Errorf("message = %q, want %q", re.Message, want)
	}
}

func TestMissingRoutes(t *testing.T) {
	_, err := build(t, "", nil)
	if !errors.Is(err, errors.New(errors.CodeRoutesNotArray)) {
		t.Fatalf("err = %v, want R001", err)
	}
	var re *errors.RouteError
	if errors.As(err, &re) && re.Message != "routes must be defined as an array." {
		t.Errorf("message = %q", re.Message)
	}

	f, err := build(t, "", nil, WithRoutes())
	if err != nil {
		t.Fatalf("empty route list: %v", err)
	}
	if got := f.router.Table().Len(); got != 0 {
		t.Errorf("table has %d routes", got)
	}
}

func TestRoutableSignalUpdatesURL(t *testing.T) {
	f := setup(t, map[string][]host.Action{"home": nil, "test": nil},
		WithPreventAutostart(true),
		WithRoutes(
			routes.Route{Path: "/", Signal: "home"},
			routes.Route{Path: "/test", Signal: "test"},
		),
	)
	f.mustSignal("test", nil)
	if got := f.bar.Pathname(); got != "/test" {
		t.Errorf("pathname = %q, want /test", got)
	}
}

func TestRouteSignalPreservesURL(t *testing.T) {
	f := setup(t, map[string][]host.Action{"test": nil},
		WithPreventAutostart(true),
		WithRoutes(
			routes.Route{Path: "/", Signal: "home"},
			routes.Route{Path: "/test", Signal: "test"},
		),
	)
	f.mustSignal("test", nil)
	f.mustTrigger("/test?foo=bar")
	if got := f.bar.Value(); got != origin("/test?foo=bar") {
		t.Errorf("value = %q", got)
	}
}

func TestRegularSignalKeepsURL(t *testing.T) {
	count := 0
	f, err := build(t, origin("/test"),
		map[string][]host.Action{"test": nil, "foo": {counter(&count)}},
		WithRoutes(routes.Route{Path: "/test", Signal: "test"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	f.mustSignal("foo", nil)
	if got := f.bar.Pathname(); got != "/test" {
		t.Errorf("pathname = %q", got)
	}
	if count != 1 {
		t.Errorf("count = %d", count)
	}
}

func TestUnmatchedNavigation(t *testing.T) {
	tests := []struct {
		name         string
		opts         []Option
		wantWarnings int
	}{
		{"base", []Option{WithBaseURL("/base")}, 1},
		{"base without slash", []Option{WithBaseURL("base")}, 1},
		{"allow escape", []Option{WithBaseURL("/base"), WithAllowEscape(true)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{
				WithPreventAutostart(true),
				WithRoutes(routes.Route{Path: "/", Signal: "home"}),
			}, tt.opts...)
			f := setup(t, map[string][]host.Action{"home": nil}, opts...)

			prevented, err := f.bar.Emit("/missing")
			if err != nil {
				t.Fatal(err)
			}
			if prevented || len(f.logs.warnings()) != 0 {
				t.Fatalf("URL outside the base was handled")
			}
			if f.bar.Value() != origin("/missing") {
				t.Errorf("value = %q", f.bar.Value())
			}

			prevented, err = f.bar.Emit("/base/missing")
			if err != nil {
				t.Fatal(err)
			}
			if got := len(f.logs.warnings()); got != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d", got, tt.wantWarnings)
			}
			if prevented != (tt.wantWarnings == 1) {
				t.Errorf("prevented = %v", prevented)
			}
		})
	}
}

func TestUnmatchedWarningText(t *testing.T) {
	f := setup(t, map[string][]host.Action{"home": nil},
		WithPreventAutostart(true),
		WithRoutes(routes.Route{Path: "/", Signal: "home"}),
	)
	f.mustTrigger("/nope")
	warnings := f.logs.warnings()
	want := `No route matched /nope, navigation was prevented. Please verify url or catch unmatched routes with a "/*" route.`
	if len(warnings) != 1 || warnings[0] != want {
		t.Errorf("warnings = %q", warnings)
	}
}

func TestIdempotentNavigation(t *testing.T) {
	count := 0
	f := setup(t, map[string][]host.Action{"foo": {counter(&count)}},
		WithPreventAutostart(true),
		WithRoutes(routes.Route{Path: "/foo", Signal: "foo"}),
	)

	f.mustTrigger("/foo", "/foo", "/foo#hash")
	if count != 1 {
		t.Errorf("count = %d after same payload, want 1", count)
	}
	f.mustTrigger("/foo?x=1")
	if count != 2 {
		t.Errorf("count = %d after new payload, want 2", count)
	}
}

func TestSignalURL(t *testing.T) {
	f := setup(t, nil,
		WithBaseURL("/base"),
		WithAllowEscape(true),
		WithPreventAutostart(true),
		WithRoutes(
			routes.Route{Path: "/", Signal: "home"},
			routes.Route{Path: "/items/:item", Signal: "item"},
		),
	)

	tests := []struct {
		signal  string
		payload map[string]any
		want    string
	}{
		{"home", nil, "/base/"},
		{"item", map[string]any{"item": "foo"}, "/base/items/foo"},
		{"item", map[string]any{"item": 42, "tab": "info"}, "/base/items/:42?tab=info"},
	}
	for _, tt := range tests {
		got, err := f.router.SignalURL(tt.signal, tt.payload)
		if err != nil {
			t.Fatalf("SignalURL(%s): %v", tt.signal, err)
		}
		if got != tt.want {
			t.Errorf("SignalURL(%s) = %q, want %q", tt.signal, got, tt.want)
		}
	}

	if _, err := f.router.SignalURL("unknown", nil); !errors.Is(err, errors.ErrMissingSignal) {
		t.Errorf("unbound signal err = %v", err)
	}
	if _, err := f.router.SignalURL("item", nil); !errors.Is(err, errors.ErrParam) {
		t.Errorf("missing param err = %v", err)
	}
}

func TestSignalURLBeforeInitialize(t *testing.T) {
	h := host.New()
	r, err := New(h, addressbar.NewMemory(""), mapper.New(),
		WithRoutes(routes.Route{Path: "/items/:item", Signal: "item"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.SignalURL("item", map[string]any{"item": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "/items/x" {
		t.Errorf("SignalURL = %q", got)
	}
}

func TestAddRoutes(t *testing.T) {
	var hits []string
	record := func(name string) host.Action {
		return func(*host.Context) error {
			hits = append(hits, name)
			return nil
		}
	}
	f := setup(t,
		map[string][]host.Action{
			"home":    {record("home")},
			"any":     {record("any")},
			"special": {record("special")},
		},
		WithPreventAutostart(true),
		WithRoutes(
			routes.Route{Path: "/", Signal: "home"},
			routes.Route{Path: "/(.*)", Signal: "any"},
		),
	)

	if err := f.router.AddRoutes([]routes.Route{{Path: "/special/:id", Signal: "special"}}); err != nil {
		t.Fatal(err)
	}

	got, err := f.router.SignalURL("special", map[string]any{"id": 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != "/special/:1" {
		t.Errorf("SignalURL = %q", got)
	}

	f.mustTrigger("/special/:1")
	if len(hits) != 1 || hits[0] != "special" {
		t.Errorf("hits = %v, want [special]", hits)
	}
	if paths := f.router.Table().Paths(); paths[0] != "/special/:id" {
		t.Errorf("table order = %v", paths)
	}

	err = f.router.AddRoutes([]routes.Route{{Path: "/again", Signal: "special"}})
	if !errors.Is(err, errors.ErrConfig) {
		t.Fatalf("duplicate signal err = %v", err)
	}
	if _, err := f.router.SignalURL("special", map[string]any{"id": 2}); err != nil {
		t.Errorf("table was replaced after a failed AddRoutes: %v", err)
	}
}

func TestMatch(t *testing.T) {
	f := setup(t, map[string][]host.Action{"item": nil},
		WithBaseURL("/app"),
		WithPreventAutostart(true),
		WithRoutes(routes.Route{Path: "/items/:id", Signal: "item"}),
	)

	tests := []struct {
		url       string
		wantRoute string
		wantID    any
	}{
		{"/app/items/3", "/items/:id", "3"},
		{origin("/app/items/:3"), "/items/:id", 3},
		{"/app/other", "", nil},
		{"/elsewhere/items/3", "", nil},
	}
	for _, tt := range tests {
		route, values, err := f.router.Match(tt.url)
		if err != nil {
			t.Fatalf("Match(%q) error: %v", tt.url, err)
		}
		if route != tt.wantRoute {
			t.Errorf("Match(%q) route = %q, want %q", tt.url, route, tt.wantRoute)
		}
		if got := values["id"]; got != tt.wantID {
			t.Errorf("Match(%q) id = %#v, want %#v", tt.url, got, tt.wantID)
		}
	}
}
