package host

import (
	"strings"

	"github.com/vango-dev/routesync/pkg/compute"
)

// get reads a dot path. The empty path returns the root.
func get(root map[string]any, path string) any {
	return compute.Lookup(root, path)
}

// set writes v at path, creating intermediate maps. Non-map intermediates
// are replaced.
func set(root map[string]any, path string, v any) {
	keys := strings.Split(path, ".")
	m := root
	for _, key := range keys[:len(keys)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[key] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = v
}

// unset removes path. It reports whether anything was removed.
func unset(root map[string]any, path string) bool {
	keys := strings.Split(path, ".")
	m := root
	for _, key := range keys[:len(keys)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			return false
		}
		m = next
	}
	last := keys[len(keys)-1]
	if _, ok := m[last]; !ok {
		return false
	}
	delete(m, last)
	return true
}
