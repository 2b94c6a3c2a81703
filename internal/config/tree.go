package config

import (
	"sort"
	"strings"

	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/compute"
	"github.com/vango-dev/routesync/pkg/routes"
)

const (
	statePrefix = "state:"
	propsPrefix = "props:"
)

// Tree converts the file routes into a route tree.
func (f *File) Tree() ([]routes.Route, error) {
	return convert(f.Routes, "")
}

// Signals returns every signal named in the file, sorted.
func (f *File) Signals() []string {
	seen := make(map[string]bool)
	var walk func([]Route)
	walk = func(list []Route) {
		for _, r := range list {
			if r.Signal != "" {
				seen[r.Signal] = true
			}
			walk(r.Routes)
		}
	}
	walk(f.Routes)

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func convert(list []Route, prefix string) ([]routes.Route, error) {
	out := make([]routes.Route, 0, len(list))
	for _, r := range list {
		full := prefix + r.Path
		node := routes.Route{Path: r.Path, Signal: r.Signal}

		if r.Map != nil {
			node.Map = make(map[string]compute.Value, len(r.Map))
			for key, ref := range r.Map {
				v, err := reference(ref)
				if err != nil {
					return nil, badReference(full, "map", key, ref)
				}
				node.Map[key] = v
			}
		}

		if r.RMap != nil {
			node.RMap = make(map[string]compute.Value, len(r.RMap))
			for key, ref := range r.RMap {
				v, err := reference(ref)
				if err != nil {
					return nil, badReference(full, "rmap", key, ref)
				}
				node.RMap[key] = compute.Compute(v)
			}
		}

		if len(r.Routes) > 0 {
			children, err := convert(r.Routes, full)
			if err != nil {
				return nil, err
			}
			node.Routes = children
		}
		out = append(out, node)
	}
	return out, nil
}

// reference parses "state:<path>" or "props:<path>".
func reference(ref string) (*compute.PathValue, error) {
	switch {
	case strings.HasPrefix(ref, statePrefix):
		return compute.State(strings.TrimPrefix(ref, statePrefix)), nil
	case strings.HasPrefix(ref, propsPrefix):
		return compute.Props(strings.TrimPrefix(ref, propsPrefix)), nil
	}
	return nil, errors.New(errors.CodeConfigFileFormat)
}

func badReference(route, field, key, ref string) error {
	return errors.Newf(errors.CodeConfigFileFormat,
		"route %s: %s value %q for key %q must start with %q or %q",
		route, field, ref, key, statePrefix, propsPrefix)
}
