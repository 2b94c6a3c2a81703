package mapper

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/routesync/internal/errors"
)

// Mapper matches URLs against templates and stringifies templates.
// Compiled templates are cached; a Mapper is safe for concurrent use.
type Mapper struct {
	mu        sync.RWMutex
	templates map[string]*Template

	query  bool
	logger *slog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithQuery controls whether query strings are decoded on Map and
// unmatched values are rendered as a query string on Stringify.
// Enabled by default.
func WithQuery(enabled bool) Option {
	return func(m *Mapper) {
		m.query = enabled
	}
}

// WithLogger sets the logger used for template compilation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Mapper.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		templates: make(map[string]*Template),
		query:     true,
		logger:    slog.Default().With("component", "mapper"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Template returns the compiled template for route, compiling and caching
// it on first use.
func (m *Mapper) Template(route string) (*Template, error) {
	m.mu.RLock()
	t, ok := m.templates[route]
	m.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := Compile(route)
	if err != nil {
		m.logger.Warn("template compilation failed", "route", route, "error", err)
		return nil, err
	}

	m.mu.Lock()
	m.templates[route] = t
	m.mu.Unlock()
	return t, nil
}

// Map returns the first route in routes that matches rawURL together with
// the decoded values. An empty route means nothing matched.
func (m *Mapper) Map(rawURL string, routes []string) (string, map[string]any, error) {
	for _, route := range routes {
		values, ok, err := m.Parse(route, rawURL)
		if err != nil {
			return "", nil, err
		}
		if ok {
			return route, values, nil
		}
	}
	return "", nil, nil
}

// Parse matches rawURL against a single route template.
func (m *Mapper) Parse(route, rawURL string) (map[string]any, bool, error) {
	t, err := m.Template(route)
	if err != nil {
		return nil, false, err
	}

	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL = rawURL[:i]
	}
	path, rawQuery, _ := strings.Cut(rawURL, "?")

	match := t.re.FindStringSubmatchIndex(path)
	if match == nil {
		return nil, false, nil
	}

	values := make(map[string]any)
	if m.query && rawQuery != "" {
		q, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, false, errors.Newf(errors.CodeUnparsableURL, "Could not parse query of %s", rawURL).Wrap(err)
		}
		for k, vs := range q {
			if len(vs) == 0 {
				continue
			}
			values[k] = DecodeValue(vs[len(vs)-1])
		}
	}

	group := 1
	for _, tok := range t.tokens {
		if !tok.param {
			continue
		}
		start, end := match[2*group], match[2*group+1]
		group++
		if start < 0 {
			continue
		}

		raw := path[start:end]
		if tok.repeat {
			parts := strings.Split(raw, tok.delimiter)
			list := make([]any, 0, len(parts))
			for _, p := range parts {
				list = append(list, DecodeValue(unescapeSegment(p)))
			}
			values[tok.name] = list
			continue
		}
		values[tok.name] = DecodeValue(unescapeSegment(raw))
	}

	return values, true, nil
}

// Stringify renders route with values. Values not consumed by path
// parameters are appended as a sorted query string; nil values are
// omitted from the query.
func (m *Mapper) Stringify(route string, values map[string]any) (string, error) {
	t, err := m.Template(route)
	if err != nil {
		return "", err
	}

	used := make(map[string]bool)
	var path strings.Builder

	for _, tok := range t.tokens {
		if !tok.param {
			path.WriteString(tok.literal)
			continue
		}

		used[tok.name] = true
		v, ok := values[tok.name]
		if !ok || v == nil {
			if tok.optional {
				if tok.partial {
					path.WriteString(tok.prefix)
				}
				continue
			}
			return "", errors.Newf(errors.CodeParamType, "Expected %q to be a string", tok.name)
		}

		if list, isList := v.([]any); isList && tok.repeat {
			if len(list) == 0 {
				if tok.optional {
					continue
				}
				return "", errors.Newf(errors.CodeParamType, "Expected %q to not be empty", tok.name)
			}
			for i, e := range list {
				segment, err := t.segment(tok, e)
				if err != nil {
					return "", err
				}
				if i == 0 {
					path.WriteString(tok.prefix)
				} else {
					path.WriteString(tok.delimiter)
				}
				path.WriteString(segment)
			}
			continue
		}

		segment, err := t.segment(tok, v)
		if err != nil {
			return "", err
		}
		path.WriteString(tok.prefix)
		path.WriteString(segment)
	}

	out := path.String()
	if !m.query {
		return out, nil
	}

	query, err := encodeQuery(values, used)
	if err != nil {
		return "", err
	}
	if query != "" {
		out += "?" + query
	}
	return out, nil
}

func (t *Template) segment(tok token, v any) (string, error) {
	s, err := EncodeValue(v)
	if err != nil {
		return "", errors.Newf(errors.CodeParamType, "Expected %q to be a string", tok.name).Wrap(err)
	}
	s = escapeSegment(s)
	if !t.validators[tok.name].MatchString(s) {
		return "", errors.Newf(errors.CodeParamMismatch,
			"Expected \"%s\" to match \"%s\", but got \"%s\"", tok.name, tok.pattern, s)
	}
	return s, nil
}

func encodeQuery(values map[string]any, used map[string]bool) (string, error) {
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if used[k] || v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		s, err := EncodeValue(values[k])
		if err != nil {
			return "", errors.Newf(errors.CodeParamType, "Could not encode query value %q", k).Wrap(err)
		}
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(s))
	}
	return strings.Join(parts, "&"), nil
}

// escapeSegment percent-encodes a value for a single path segment,
// keeping the sub-delimiters that are legal in paths.
func escapeSegment(s string) string {
	return url.PathEscape(s)
}

func unescapeSegment(s string) string {
	u, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// String implements fmt.Stringer for debugging.
func (m *Mapper) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("Mapper{templates: %d, query: %t}", len(m.templates), m.query)
}
