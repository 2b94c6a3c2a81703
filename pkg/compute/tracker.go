package compute

import (
	"reflect"
	"strings"

	"github.com/vango-dev/routesync/pkg/deps"
)

// Phase is the lifecycle stage of a Tracker.
type Phase int

const (
	// PhaseCompiled trackers exist but have never run.
	PhaseCompiled Phase = iota

	// PhasePrimed trackers hold the result and dependencies of a run.
	PhasePrimed
)

// Tracker records the state paths a computation reads.
type Tracker struct {
	computation *Computation
	trie        deps.Trie
	value       any
	phase       Phase
}

// NewTracker wraps a computation. The tracker starts in PhaseCompiled.
func NewTracker(c *Computation) *Tracker {
	return &Tracker{computation: c, trie: deps.Trie{}}
}

// Run re-evaluates the computation against state and props, replacing the
// recorded dependencies and the value. State is only read.
func (t *Tracker) Run(state StateGetter, props map[string]any) error {
	trie := deps.Trie{}
	seen := make(map[string]bool)
	record := func(path string) {
		if !seen[path] {
			seen[path] = true
			trie.Insert(path)
		}
	}

	ctx := Context{
		Props: props,
		State: func(path string) any {
			var v any
			if state != nil {
				v = state(path)
			}
			record(strictPath(path, v))
			return v
		},
		wildcard: func(parent string) {
			if parent == "" {
				record(deps.DeepWildcard)
				return
			}
			record(parent + "." + deps.DeepWildcard)
		},
	}

	value, err := t.computation.Resolve(ctx)
	t.trie = trie
	if err != nil {
		return err
	}
	t.value = value
	t.phase = PhasePrimed
	return nil
}

// Value returns the result of the last successful run.
func (t *Tracker) Value() any {
	return t.value
}

// Trie returns the dependencies recorded by the last run.
func (t *Tracker) Trie() deps.Trie {
	return t.trie
}

// Phase returns the lifecycle stage.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Primed reports whether the tracker has run.
func (t *Tracker) Primed() bool {
	return t.phase == PhasePrimed
}

// ShouldRun reports whether the tracker needs a run for this change set.
func (t *Tracker) ShouldRun(changes []deps.Change) bool {
	return !t.Primed() || deps.Touched(changes, t.trie)
}

// Computation returns the wrapped computation.
func (t *Tracker) Computation() *Computation {
	return t.computation
}

// strictPath widens reads of complex values so that any descendant change
// invalidates them.
func strictPath(path string, v any) string {
	if strings.Contains(path, "*") || !isComplex(v) {
		return path
	}
	if path == "" {
		return deps.DeepWildcard
	}
	return path + "." + deps.DeepWildcard
}

func isComplex(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	case reflect.Ptr:
		return !reflect.ValueOf(v).IsNil()
	}
	return false
}
