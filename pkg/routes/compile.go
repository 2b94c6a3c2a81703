package routes

import (
	"sort"

	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/compute"
)

// Compile flattens a route tree into a Table. tree must be a []Route or a
// *[]Route; config loaders hand over whatever they decoded.
//
// Children are compiled before their parent with the accumulated path
// prefix. Trackers for computed mappings are created here but not run: the
// first run needs the host state, which only exists once the host is
// initialized.
func Compile(tree any) (*Table, error) {
	var list []Route
	switch v := tree.(type) {
	case []Route:
		list = v
	case *[]Route:
		if v == nil {
			return nil, errors.Newf(errors.CodeRoutesNotArray, "routes must be defined as an array.")
		}
		list = *v
	default:
		return nil, errors.Newf(errors.CodeRoutesNotArray, "routes must be defined as an array.")
	}

	t := NewTable()
	if err := flatten(t, list, ""); err != nil {
		return nil, err
	}
	return t, nil
}

func flatten(t *Table, routes []Route, prefix string) error {
	for _, r := range routes {
		if len(r.Routes) > 0 {
			if err := flatten(t, r.Routes, prefix+r.Path); err != nil {
				return err
			}
		}

		entry, err := compileEntry(prefix+r.Path, r)
		if err != nil {
			return err
		}
		t.Set(entry.Path, entry)
	}
	return nil
}

func compileEntry(path string, r Route) (*Entry, error) {
	e := &Entry{Path: path, Signal: r.Signal}

	if r.Map != nil {
		e.Map = r.Map
		for _, key := range sortedKeys(r.Map) {
			switch v := r.Map[key].(type) {
			case *compute.PathValue:
				if v.Source() == compute.SourceProps {
					e.PropsMapping = append(e.PropsMapping, key)
				} else {
					e.StateMapping = append(e.StateMapping, key)
				}
			case *compute.Computation:
				if e.ComputedMapping == nil {
					e.ComputedMapping = make(map[string]*compute.Tracker)
				}
				e.ComputedMapping[key] = compute.NewTracker(v)
			}
		}

		if len(e.PropsMapping) > 0 && r.Signal == "" {
			return nil, errors.Newf(errors.CodePropsNoSignal,
				"route %s has props mappings but no signal was defined.", path)
		}
	}

	for _, key := range sortedKeys(r.RMap) {
		c, ok := r.RMap[key].(*compute.Computation)
		if !ok {
			continue
		}
		if e.ComputedRMapping == nil {
			e.RMap = r.RMap
			e.ComputedRMapping = make(map[string]*compute.Tracker)
		}
		e.ComputedRMapping[key] = compute.NewTracker(c)
	}

	return e, nil
}

// SignalIndex maps a signal name to the path of the route it is bound to.
type SignalIndex map[string]string

// IndexSignals builds the signal index of a table. Binding one signal to
// two routes is a config error naming the later route.
func IndexSignals(t *Table) (SignalIndex, error) {
	idx := make(SignalIndex)
	var err error
	t.Each(func(path string, e *Entry) {
		if err != nil || e.Signal == "" {
			return
		}
		if _, dup := idx[e.Signal]; dup {
			err = errors.Newf(errors.CodeDuplicateSignal,
				"The signal %s has already been bound to route %s. Create a new signal and reuse actions instead if needed.",
				e.Signal, path)
			return
		}
		idx[e.Signal] = path
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Lookup returns the path bound to signal.
func (idx SignalIndex) Lookup(signal string) (string, bool) {
	path, ok := idx[signal]
	return path, ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
