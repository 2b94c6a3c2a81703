package deps

import (
	"reflect"
	"strings"
)

// Change is one committed state mutation.
type Change struct {
	// Path is the mutated location, one key per segment.
	Path []string

	// ForceChildPathUpdates marks a change that must invalidate every
	// dependency recorded below Path, not only wildcard subscribers.
	ForceChildPathUpdates bool
}

// ChangeAt builds a Change from a dot-delimited path.
func ChangeAt(path string) Change {
	return Change{Path: strings.Split(path, ".")}
}

// String returns the dot-delimited path of the change.
func (c Change) String() string {
	return strings.Join(c.Path, ".")
}

// Match walks the trie for every change and returns the matched nodes.
//
// Along the way any "**" entry matches. On the last segment of a change an
// exact entry matches together with its "**" and "*" children, or with all
// of its descendants when the change forces child updates; a "*" sibling
// at that level matches too. A missing entry stops the descent.
func Match(changes []Change, trie Trie) []*Node {
	var matches []*Node

	for _, change := range changes {
		level := trie
		for i, key := range change.Path {
			if level == nil {
				break
			}

			if deep, ok := level[DeepWildcard]; ok {
				matches = append(matches, deep)
			}

			if i == len(change.Path)-1 {
				if dependency, ok := level[key]; ok {
					matches = append(matches, dependency)

					if dependency.Children != nil {
						if change.ForceChildPathUpdates {
							matches = append(matches, allChildren(dependency.Children)...)
						} else {
							if deep, ok := dependency.Children[DeepWildcard]; ok {
								matches = append(matches, deep)
							}
							if star, ok := dependency.Children[Wildcard]; ok {
								matches = append(matches, star)
							}
						}
					}
				}

				if star, ok := level[Wildcard]; ok {
					matches = append(matches, star)
				}
			}

			next, ok := level[key]
			if !ok {
				break
			}
			level = next.Children
		}
	}

	return matches
}

// Touched reports whether any change hits the trie.
func Touched(changes []Change, trie Trie) bool {
	return len(Match(changes, trie)) > 0
}

func allChildren(children Trie) []*Node {
	var out []*Node
	for _, child := range children {
		out = append(out, child)
		if child.Children != nil {
			out = append(out, allChildren(child.Children)...)
		}
	}
	return out
}

// HasChangedPath reports whether one of the changes is exactly path.
func HasChangedPath(changes []Change, path string) bool {
	for _, c := range changes {
		if c.String() == path {
			return true
		}
	}
	return false
}

// ChangedProps compares two payloads key by key and returns a change for
// every key whose value differs. The comparison is shallow: maps and slices
// are equal only when they share storage, and a missing key equals nil.
func ChangedProps(a, b map[string]any) []Change {
	var changes []Change
	seen := make(map[string]bool, len(a)+len(b))
	check := func(key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		if !sameValue(a[key], b[key]) {
			changes = append(changes, Change{Path: []string{key}})
		}
	}
	for key := range a {
		check(key)
	}
	for key := range b {
		check(key)
	}
	return changes
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if !va.Comparable() {
		return false
	}
	return a == b
}
