package routes

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/compute"
)

func signals(t *Table) map[string]string {
	out := make(map[string]string)
	t.Each(func(path string, e *Entry) {
		out[path] = e.Signal
	})
	return out
}

func TestCompileFlatRoutes(t *testing.T) {
	table, err := Compile([]Route{
		{Path: "/some/url", Signal: "some.signal"},
		{Path: "/other/url", Signal: "other.signal"},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"/some/url":  "some.signal",
		"/other/url": "other.signal",
	}
	if diff := cmp.Diff(want, signals(table)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/some/url", "/other/url"}, table.Paths()); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileNestedRoutes(t *testing.T) {
	table, err := Compile([]Route{
		{
			Path:   "/foo",
			Signal: "foo.signal",
			Routes: []Route{
				{Path: "/bing", Signal: "bing.signal"},
				{
					Path:   "/bar",
					Signal: "bar.signal",
					Routes: []Route{{Path: "/baz", Signal: "baz.signal"}},
				},
			},
		},
		{Path: "/other/url", Signal: "other.signal"},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"/foo":         "foo.signal",
		"/foo/bing":    "bing.signal",
		"/foo/bar":     "bar.signal",
		"/foo/bar/baz": "baz.signal",
		"/other/url":   "other.signal",
	}
	if diff := cmp.Diff(want, signals(table)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}

	wantOrder := []string{"/foo/bing", "/foo/bar/baz", "/foo/bar", "/foo", "/other/url"}
	if diff := cmp.Diff(wantOrder, table.Paths()); diff != "" {
		t.Errorf("children should precede parents (-want +got):\n%s", diff)
	}
}

func TestCompileDuplicatePathKeepsPositionLastWins(t *testing.T) {
	table, err := Compile([]Route{
		{Path: "/a", Signal: "first"},
		{Path: "/b", Signal: "b"},
		{Path: "/a", Signal: "second"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"/a", "/b"}, table.Paths()); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	e, _ := table.Get("/a")
	if e.Signal != "second" {
		t.Errorf("Signal = %q, want second", e.Signal)
	}
}

func TestCompilePartitionsMappings(t *testing.T) {
	table, err := Compile([]Route{
		{
			Path:   "/settings/:tab",
			Map:    map[string]compute.Value{"tab": compute.Props("tab"), "focus": compute.Props("focus")},
			Signal: "some.signal",
		},
		{
			Path:   "/view/:view",
			Map:    map[string]compute.Value{"view": compute.State("app.view")},
			Signal: "app.viewRouted",
		},
		{Path: "/other/url", Signal: "other.signal"},
		{
			Path: "/compute/map",
			Map: map[string]compute.Value{"view": compute.Compute(func(compute.Getter, ...any) any {
				return true
			})},
			Signal: "compute.signal",
		},
		{
			Path: "/:foo",
			RMap: map[string]compute.Value{
				"some.path": compute.Compute(compute.Props("foo"), func(_ compute.Getter, args ...any) any {
					return args[0].(string) + "x"
				}),
				"plain.path": compute.Props("foo"),
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	settings, _ := table.Get("/settings/:tab")
	if diff := cmp.Diff([]string{"focus", "tab"}, settings.PropsMapping); diff != "" {
		t.Errorf("PropsMapping (-want +got):\n%s", diff)
	}
	if settings.StateMapping != nil || settings.ComputedMapping != nil {
		t.Error("settings should only have props mappings")
	}

	view, _ := table.Get("/view/:view")
	if diff := cmp.Diff([]string{"view"}, view.StateMapping); diff != "" {
		t.Errorf("StateMapping (-want +got):\n%s", diff)
	}
	if !view.HasStateMapping() {
		t.Error("HasStateMapping() should be true")
	}

	other, _ := table.Get("/other/url")
	if other.Map != nil || other.RMap != nil || other.HasStateMapping() {
		t.Error("plain route should have no mappings")
	}

	computed, _ := table.Get("/compute/map")
	tr, ok := computed.ComputedMapping["view"]
	if !ok {
		t.Fatal("missing computed mapping")
	}
	if tr.Primed() {
		t.Error("trackers must not run at compile time")
	}
	if computed.StateMapping != nil || computed.PropsMapping != nil {
		t.Error("computed key must not appear in another partition")
	}

	rmap, _ := table.Get("/:foo")
	if len(rmap.ComputedRMapping) != 1 || rmap.ComputedRMapping["some.path"] == nil {
		t.Errorf("ComputedRMapping = %v", rmap.ComputedRMapping)
	}
	if rmap.RMap == nil {
		t.Error("RMap should be kept when it has computations")
	}
	if len(rmap.Trackers()) != 1 {
		t.Errorf("Trackers() = %d, want 1", len(rmap.Trackers()))
	}
}

func TestCompileRMapWithoutComputations(t *testing.T) {
	table, err := Compile([]Route{{
		Path: "/:foo",
		RMap: map[string]compute.Value{"a": compute.Props("foo")},
	}})
	if err != nil {
		t.Fatal(err)
	}
	e, _ := table.Get("/:foo")
	if e.RMap != nil || e.ComputedRMapping != nil {
		t.Error("RMap without computations should be dropped")
	}
}

func TestCompilePropsWithoutSignal(t *testing.T) {
	_, err := Compile([]Route{{
		Path: "/",
		Map:  map[string]compute.Value{"modal": compute.Props("modal")},
	}})
	if !errors.IsKind(err, errors.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	if !strings.Contains(err.Error(), "route / has props mappings but no signal was defined.") {
		t.Errorf("unexpected message: %v", err)
	}

	_, err = Compile([]Route{{
		Path:   "/parent",
		Routes: []Route{{Path: "/child", Map: map[string]compute.Value{"x": compute.Props("x")}}},
	}})
	if err == nil || !strings.Contains(err.Error(), "route /parent/child has props") {
		t.Errorf("nested error should name the full path, got %v", err)
	}
}

func TestIndexSignals(t *testing.T) {
	table, err := Compile([]Route{
		{Path: "/", Signal: "home"},
		{Path: "/items/:item", Signal: "item"},
		{Path: "/about"},
	})
	if err != nil {
		t.Fatal(err)
	}
	idx, err := IndexSignals(table)
	if err != nil {
		t.Fatal(err)
	}
	want := SignalIndex{"home": "/", "item": "/items/:item"}
	if diff := cmp.Diff(want, idx); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
	if path, ok := idx.Lookup("item"); !ok || path != "/items/:item" {
		t.Errorf("Lookup(item) = %q, %v", path, ok)
	}
	if _, ok := idx.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestIndexSignalsDuplicate(t *testing.T) {
	table, err := Compile([]Route{
		{Path: "/", Signal: "test"},
		{Path: "/foo", Signal: "test"},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = IndexSignals(table)
	if !errors.IsKind(err, errors.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	want := "The signal test has already been bound to route /foo. Create a new signal and reuse actions instead if needed."
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want it to contain %q", err.Error(), want)
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	if table.Len() != 0 || table.Paths() != nil {
		t.Error("nil table should be empty")
	}
	if _, ok := table.Get("/"); ok {
		t.Error("nil table Get should fail")
	}
	table.Each(func(string, *Entry) { t.Error("nil table should not iterate") })
}

func TestCompileRejectsNonList(t *testing.T) {
	inputs := []any{
		nil,
		map[string]Route{"/": {Path: "/"}},
		Route{Path: "/"},
		(*[]Route)(nil),
	}
	for _, in := range inputs {
		_, err := Compile(in)
		if !errors.IsKind(err, errors.KindConfig) {
			t.Errorf("Compile(%T) error = %v, want config error", in, err)
			continue
		}
		if !strings.Contains(err.Error(), "routes must be defined as an array.") {
			t.Errorf("Compile(%T) error = %v", in, err)
		}
	}

	list := []Route{{Path: "/", Signal: "home"}}
	table, err := Compile(&list)
	if err != nil || table.Len() != 1 {
		t.Errorf("Compile(*[]Route) = %v, %v", table, err)
	}
}
