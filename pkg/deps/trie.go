package deps

import (
	"sort"
	"strings"
)

// Reserved trie keys.
const (
	Wildcard     = "*"
	DeepWildcard = "**"
)

// Node is one entry of a Trie.
type Node struct {
	// Key is the path segment this node represents.
	Key string

	// Path is the full dot path from the root to this node.
	Path string

	// Children is nil for leaves.
	Children Trie
}

// Trie maps a path segment to its node.
type Trie map[string]*Node

// NewTrie builds a trie from dot-delimited paths.
func NewTrie(paths ...string) Trie {
	t := Trie{}
	for _, p := range paths {
		t.Insert(p)
	}
	return t
}

// Insert adds a dot-delimited path to the trie.
func (t Trie) Insert(path string) {
	if path == "" {
		return
	}
	level := t
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		node, ok := level[seg]
		if !ok {
			node = &Node{Key: seg, Path: strings.Join(segments[:i+1], ".")}
			level[seg] = node
		}
		if i == len(segments)-1 {
			return
		}
		if node.Children == nil {
			node.Children = Trie{}
		}
		level = node.Children
	}
}

// Paths returns the full path of every leaf, sorted.
func (t Trie) Paths() []string {
	var out []string
	var walk func(Trie)
	walk = func(level Trie) {
		for _, node := range level {
			if node.Children == nil {
				out = append(out, node.Path)
				continue
			}
			walk(node.Children)
		}
	}
	walk(t)
	sort.Strings(out)
	return out
}

// Len returns the number of nodes in the trie.
func (t Trie) Len() int {
	n := 0
	for _, node := range t {
		n++
		if node.Children != nil {
			n += node.Children.Len()
		}
	}
	return n
}
