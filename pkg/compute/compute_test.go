package compute

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/deps"
)

func mapState(root map[string]any) StateGetter {
	return func(path string) any {
		return Lookup(root, path)
	}
}

func TestPathValueResolve(t *testing.T) {
	state := map[string]any{
		"user":  map[string]any{"name": "ada", "id": "u1"},
		"items": map[string]any{"b": 2, "a": 1},
		"names": map[string]any{"u1": "Ada Lovelace"},
	}
	ctx := Context{
		Props: map[string]any{"id": "u1", "nested": map[string]any{"key": "name"}},
		State: mapState(state),
	}

	tests := []struct {
		name  string
		value Value
		want  any
	}{
		{"literal", Lit(42), 42},
		{"state path", State("user.name"), "ada"},
		{"props path", Props("id"), "u1"},
		{"nested props", Props("nested.key"), "name"},
		{"missing path", State("user.missing.deep"), nil},
		{"interpolated", State("names.", Props("id")), "Ada Lovelace"},
		{"interpolated from state", State("user.", Props("nested.key")), "ada"},
		{"wildcard keys", State("items.*"), []string{"a", "b"}},
		{"wildcard on missing parent", State("nothing.*"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Resolve(ctx)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPathValuePathAndSource(t *testing.T) {
	p := State("items.", Props("id"), ".title")
	path, err := p.Path(Context{Props: map[string]any{"id": 7}})
	if err != nil {
		t.Fatal(err)
	}
	if path != "items.7.title" {
		t.Errorf("Path() = %q", path)
	}
	if p.Source() != SourceState || Props("x").Source() != SourceProps {
		t.Error("unexpected sources")
	}
	if p.String() != "state:items.${path}.title" {
		t.Errorf("String() = %q", p.String())
	}
}

func TestComputeFold(t *testing.T) {
	ctx := Context{
		Props: map[string]any{"page": "foo-bar"},
		State: mapState(map[string]any{"group": "cerebral", "project": "router"}),
	}

	join := func(_ Getter, args ...any) any {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprint(a)
		}
		return strings.Join(parts, "-")
	}

	tests := []struct {
		name string
		c    *Computation
		want any
	}{
		{
			name: "two paths into one transform",
			c:    Compute(State("group"), State("project"), join),
			want: "cerebral-router",
		},
		{
			name: "transform result feeds the next window",
			c: Compute(State("group"), func(_ Getter, args ...any) any {
				return strings.ToUpper(args[0].(string))
			}, State("project"), join),
			want: "CEREBRAL-router",
		},
		{
			name: "props split",
			c: Compute(Props("page"), func(_ Getter, args ...any) any {
				return strings.Split(args[0].(string), "-")[1]
			}),
			want: "bar",
		},
		{
			name: "literal only",
			c:    Compute("x"),
			want: "x",
		},
		{
			name: "no transform returns last value",
			c:    Compute(State("group"), State("project")),
			want: "router",
		},
		{
			name: "plain variadic func",
			c:    Compute(1, 2, func(args ...any) any { return args[0].(int) + args[1].(int) }),
			want: 3,
		},
		{
			name: "getter resolves extra values",
			c: Compute(func(get Getter, _ ...any) any {
				return get(State("group")).(string) + "!"
			}),
			want: "cerebral!",
		},
		{
			name: "nested computation",
			c:    Compute(Compute(State("group"), State("project"), join), "x", join),
			want: "cerebral-router-x",
		},
		{
			name: "empty",
			c:    Compute(),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.c.Resolve(ctx)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCustomValue(t *testing.T) {
	v := Custom("now", func(Context) (any, error) { return "tick", nil })
	got, err := v.Resolve(Context{})
	if err != nil || got != "tick" {
		t.Fatalf("Resolve() = %v, %v", got, err)
	}

	_, err = Custom("broken", nil).Resolve(Context{})
	if !errors.IsKind(err, errors.KindNotImplemented) {
		t.Fatalf("expected not implemented error, got %v", err)
	}
	if !strings.Contains(err.Error(), "*compute.CustomValue") {
		t.Errorf("error should name the offending type: %v", err)
	}

	_, err = Compute(Custom("broken", nil), func(_ Getter, args ...any) any { return args }).Resolve(Context{})
	if !errors.IsKind(err, errors.KindNotImplemented) {
		t.Errorf("computation should surface the error, got %v", err)
	}

	_, err = Compute(func(get Getter, _ ...any) any { return get(Custom("broken", nil)) }).Resolve(Context{})
	if !errors.IsKind(err, errors.KindNotImplemented) {
		t.Errorf("getter errors should surface, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[Kind]string{
		KindLiteral:     "literal",
		KindPath:        "path",
		KindComputation: "computation",
		KindCustom:      "custom",
		Kind(9):         "Kind(9)",
	} {
		if kind.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(kind), kind.String(), want)
		}
	}
	for _, v := range []Value{Lit(1), State("a"), Compute(), Custom("c", nil)} {
		if v.Kind().String() == "" {
			t.Errorf("%T has no kind name", v)
		}
	}
}

func TestLookup(t *testing.T) {
	root := map[string]any{"a": map[string]any{"b": "c"}, "s": "x"}
	if Lookup(root, "a.b") != "c" {
		t.Error("a.b")
	}
	if Lookup(root, "s.deeper") != nil {
		t.Error("walking through a scalar should yield nil")
	}
	if Lookup(nil, "") != nil {
		t.Error("nil root")
	}
	if m, ok := Lookup(root, "").(map[string]any); !ok || len(m) != 2 {
		t.Error("empty path should return the root")
	}
}

func TestTrackerRecordsPaths(t *testing.T) {
	tr := NewTracker(Compute(State("foo.bar"), func(_ Getter, _ ...any) any { return "" }))
	if tr.Primed() || tr.Phase() != PhaseCompiled {
		t.Fatal("new tracker should be compiled, not primed")
	}
	if !tr.ShouldRun(nil) {
		t.Error("unprimed tracker should always run")
	}

	if err := tr.Run(func(string) any { return "" }, nil); err != nil {
		t.Fatal(err)
	}
	if !tr.Primed() {
		t.Fatal("tracker should be primed after Run")
	}

	cases := []struct {
		changes []deps.Change
		want    bool
	}{
		{[]deps.Change{deps.ChangeAt("foo.bar"), deps.ChangeAt("bar")}, true},
		{[]deps.Change{deps.ChangeAt("foo"), deps.ChangeAt("bar")}, true},
		{[]deps.Change{{Path: []string{"foo.bing"}}}, false},
	}
	for i, c := range cases {
		if got := tr.ShouldRun(c.changes); got != c.want {
			t.Errorf("case %d: ShouldRun() = %v, want %v", i, got, c.want)
		}
	}
}

func TestTrackerDeepWildcardPath(t *testing.T) {
	tr := NewTracker(Compute(State("foo.**"), func(_ Getter, _ ...any) any { return "" }))
	if err := tr.Run(func(string) any { return "" }, nil); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		changes []deps.Change
		want    bool
	}{
		{[]deps.Change{deps.ChangeAt("foo.bar"), deps.ChangeAt("bar")}, true},
		{[]deps.Change{deps.ChangeAt("foo"), deps.ChangeAt("bar")}, true},
		{[]deps.Change{deps.ChangeAt("bong")}, false},
	}
	for i, c := range cases {
		if got := tr.ShouldRun(c.changes); got != c.want {
			t.Errorf("case %d: ShouldRun() = %v, want %v", i, got, c.want)
		}
	}
}

func TestTrackerWildcardAndComplexReads(t *testing.T) {
	state := map[string]any{
		"items": map[string]any{"a": 1},
		"user":  map[string]any{"name": "ada"},
		"page":  "home",
	}
	tr := NewTracker(Compute(
		State("items.*"),
		State("user"),
		State("page"),
		func(_ Getter, args ...any) any { return len(args) },
	))
	if err := tr.Run(mapState(state), nil); err != nil {
		t.Fatal(err)
	}

	want := []string{"items.**", "page", "user.**"}
	if diff := cmp.Diff(want, tr.Trie().Paths()); diff != "" {
		t.Errorf("recorded paths mismatch (-want +got):\n%s", diff)
	}
	if tr.Value() != 3 {
		t.Errorf("Value() = %v", tr.Value())
	}
	if !tr.ShouldRun([]deps.Change{deps.ChangeAt("items.b")}) {
		t.Error("adding an item should invalidate the key set")
	}
	if tr.ShouldRun([]deps.Change{deps.ChangeAt("other")}) {
		t.Error("unrelated change should not invalidate")
	}
}

func TestTrackerRunReplacesTrie(t *testing.T) {
	useA := true
	tr := NewTracker(Compute(func(get Getter, _ ...any) any {
		if useA {
			return get(State("a"))
		}
		return get(State("b"))
	}))
	state := mapState(map[string]any{"a": 1, "b": 2})

	if err := tr.Run(state, nil); err != nil {
		t.Fatal(err)
	}
	useA = false
	if err := tr.Run(state, nil); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"b"}, tr.Trie().Paths()); diff != "" {
		t.Errorf("trie should only hold the last run (-want +got):\n%s", diff)
	}
	if tr.Value() != 2 {
		t.Errorf("Value() = %v, want 2", tr.Value())
	}
}

func TestTrackerRunError(t *testing.T) {
	tr := NewTracker(Compute(Custom("broken", nil)))
	if err := tr.Run(nil, nil); !errors.IsKind(err, errors.KindNotImplemented) {
		t.Fatalf("Run() error = %v", err)
	}
	if tr.Primed() {
		t.Error("failed run should not prime the tracker")
	}
}
