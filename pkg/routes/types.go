package routes

import (
	"github.com/vango-dev/routesync/pkg/compute"
)

// Route is one node of a route tree.
type Route struct {
	// Path is joined to the parent's path. It may hold parameters
	// understood by the mapper (":id", ":id?", ":id(\\d+)", "(.*)").
	Path string `json:"path" yaml:"path"`

	// Signal is run when the route matches.
	Signal string `json:"signal,omitempty" yaml:"signal,omitempty"`

	// Routes are children.
	Routes []Route `json:"routes,omitempty" yaml:"routes,omitempty"`

	// Map binds URL keys (path params or query keys) to state paths, props
	// paths or computations.
	Map map[string]compute.Value `json:"-" yaml:"-"`

	// RMap binds state paths to computations over the URL values.
	RMap map[string]compute.Value `json:"-" yaml:"-"`
}

// Entry is the compiled form of one route.
type Entry struct {
	// Path is the full, concatenated path.
	Path string

	// Signal is the bound signal, if any.
	Signal string

	// Map is the original forward mapping.
	Map map[string]compute.Value

	// StateMapping lists the Map keys bound to state paths, sorted.
	StateMapping []string

	// PropsMapping lists the Map keys bound to props paths, sorted.
	PropsMapping []string

	// ComputedMapping holds a tracker per computed Map key.
	ComputedMapping map[string]*compute.Tracker

	// RMap is the reverse mapping, kept only when it has computations.
	RMap map[string]compute.Value

	// ComputedRMapping holds a tracker per reverse state path.
	ComputedRMapping map[string]*compute.Tracker
}

// HasStateMapping reports whether matching this entry writes state.
func (e *Entry) HasStateMapping() bool {
	return len(e.StateMapping) > 0
}

// Trackers returns every tracker of the entry.
func (e *Entry) Trackers() []*compute.Tracker {
	out := make([]*compute.Tracker, 0, len(e.ComputedMapping)+len(e.ComputedRMapping))
	for _, key := range sortedKeys(e.ComputedMapping) {
		out = append(out, e.ComputedMapping[key])
	}
	for _, key := range sortedKeys(e.ComputedRMapping) {
		out = append(out, e.ComputedRMapping[key])
	}
	return out
}

// Table is an insertion-ordered map from full path to Entry. A path
// defined twice keeps its first position and its last definition.
type Table struct {
	order   []string
	entries map[string]*Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Set inserts or replaces the entry for path.
func (t *Table) Set(path string, e *Entry) {
	if _, ok := t.entries[path]; !ok {
		t.order = append(t.order, path)
	}
	t.entries[path] = e
}

// Get returns the entry for path.
func (t *Table) Get(path string) (*Entry, bool) {
	if t == nil {
		return nil, false
	}
	e, ok := t.entries[path]
	return e, ok
}

// Paths returns the route paths in table order.
func (t *Table) Paths() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Each calls fn for every entry in table order.
func (t *Table) Each(fn func(path string, e *Entry)) {
	if t == nil {
		return
	}
	for _, path := range t.order {
		fn(path, t.entries[path])
	}
}
