package compute

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/routesync/internal/errors"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	KindLiteral Kind = iota
	KindPath
	KindComputation
	KindCustom
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindPath:
		return "path"
	case KindComputation:
		return "computation"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Source is where a path value reads from.
type Source int

const (
	SourceState Source = iota
	SourceProps
)

// String returns the source name.
func (s Source) String() string {
	if s == SourceProps {
		return "props"
	}
	return "state"
}

// StateGetter reads the state tree at a dot-delimited path. An empty path
// returns the root.
type StateGetter func(path string) any

// Context is what values resolve against.
type Context struct {
	Props map[string]any
	State StateGetter

	// wildcard is called with the parent path of every wildcard read.
	wildcard func(parent string)
}

// Value is a resolvable value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	Resolve(ctx Context) (any, error)
	sealed()
}

// Getter resolves a value against the context of the running computation.
type Getter func(v Value) any

// =============================================================================
// Literal
// =============================================================================

// Literal is a constant value.
type Literal struct {
	v any
}

// Lit wraps a constant.
func Lit(v any) *Literal {
	return &Literal{v: v}
}

func (l *Literal) Kind() Kind { return KindLiteral }
func (l *Literal) sealed()    {}

// Resolve returns the constant.
func (l *Literal) Resolve(Context) (any, error) {
	return l.v, nil
}

// =============================================================================
// Path
// =============================================================================

// PathValue is a path template into the state tree or the props map.
type PathValue struct {
	source Source
	parts  []any
}

// State builds a path template into the state tree. Parts are strings or
// Values; Values are resolved and interpolated.
func State(parts ...any) *PathValue {
	return &PathValue{source: SourceState, parts: parts}
}

// Props builds a path template into the props map.
func Props(parts ...any) *PathValue {
	return &PathValue{source: SourceProps, parts: parts}
}

func (p *PathValue) Kind() Kind { return KindPath }
func (p *PathValue) sealed()    {}

// Source returns where the path reads from.
func (p *PathValue) Source() Source {
	return p.source
}

// Path resolves the template into a concrete dot path.
func (p *PathValue) Path(ctx Context) (string, error) {
	var b strings.Builder
	for _, part := range p.parts {
		switch v := part.(type) {
		case string:
			b.WriteString(v)
		case Value:
			resolved, err := v.Resolve(ctx)
			if err != nil {
				return "", err
			}
			if resolved != nil {
				b.WriteString(fmt.Sprint(resolved))
			}
		case nil:
		default:
			b.WriteString(fmt.Sprint(v))
		}
	}
	return b.String(), nil
}

// String returns the template with interpolations shown as ${kind}.
func (p *PathValue) String() string {
	var b strings.Builder
	b.WriteString(p.source.String())
	b.WriteString(":")
	for _, part := range p.parts {
		switch v := part.(type) {
		case string:
			b.WriteString(v)
		case Value:
			b.WriteString("${" + v.Kind().String() + "}")
		default:
			b.WriteString(fmt.Sprint(v))
		}
	}
	return b.String()
}

// Resolve reads the value at the resolved path. A wildcard segment yields
// the sorted child keys of its parent.
func (p *PathValue) Resolve(ctx Context) (any, error) {
	path, err := p.Path(ctx)
	if err != nil {
		return nil, err
	}

	if parent, ok := wildcardParent(path); ok {
		if ctx.wildcard != nil && p.source == SourceState {
			ctx.wildcard(parent)
		}
		return childKeys(p.read(ctx, parent)), nil
	}

	return p.read(ctx, path), nil
}

func (p *PathValue) read(ctx Context, path string) any {
	if p.source == SourceProps {
		return Lookup(ctx.Props, path)
	}
	if ctx.State == nil {
		return nil
	}
	return ctx.State(path)
}

// wildcardParent returns the path before the first "*" segment.
func wildcardParent(path string) (string, bool) {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		if seg == "*" {
			return strings.Join(segments[:i], "."), true
		}
	}
	return "", false
}

func childKeys(v any) []string {
	keys := []string{}
	switch m := v.(type) {
	case map[string]any:
		for k := range m {
			keys = append(keys, k)
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return keys
		}
		for _, k := range rv.MapKeys() {
			keys = append(keys, fmt.Sprint(k.Interface()))
		}
	}
	sort.Strings(keys)
	return keys
}

// Lookup walks nested maps along a dot path. Missing segments yield nil.
func Lookup(root map[string]any, path string) any {
	if path == "" {
		if root == nil {
			return nil
		}
		return root
	}
	var current any = root
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[key]
		if !ok {
			return nil
		}
	}
	return current
}

// =============================================================================
// Custom
// =============================================================================

// CustomValue resolves through a caller-supplied extractor.
type CustomValue struct {
	name    string
	extract func(Context) (any, error)
}

// Custom builds a value resolved by extract.
func Custom(name string, extract func(Context) (any, error)) *CustomValue {
	return &CustomValue{name: name, extract: extract}
}

func (c *CustomValue) Kind() Kind { return KindCustom }
func (c *CustomValue) sealed()    {}

// Resolve runs the extractor.
func (c *CustomValue) Resolve(ctx Context) (any, error) {
	if c.extract == nil {
		return nil, errors.Newf(errors.CodeNotImplemented,
			"Extending %s (%T) requires a value extraction function", c.name, c)
	}
	return c.extract(ctx)
}
