package mapper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vango-dev/routesync/internal/errors"
)

// pathRegexp tokenizes templates: an escaped character, or a parameter
// with optional prefix, name, pattern, group and modifier, or an asterisk.
var pathRegexp = regexp.MustCompile(`(\\.)|([\/.])?(?:(?:\:(\w+)(?:\(((?:\\.|[^\\()])+)\))?|\(((?:\\.|[^\\()])+)\))([+*?])?|(\*))`)

var (
	escapeStringRegexp = regexp.MustCompile(`([.+*?=^!:${}()\[\]|\/\\])`)
	escapeGroupRegexp  = regexp.MustCompile(`([=!:$\/()])`)
)

// token is either a literal (name == "" and !param) or a parameter.
type token struct {
	literal string
	param   bool

	name      string
	prefix    string
	delimiter string
	optional  bool
	repeat    bool
	partial   bool
	pattern   string
}

// Template is a compiled path template.
type Template struct {
	source string
	tokens []token
	re     *regexp.Regexp

	// validators check single encoded segments, keyed by parameter name.
	validators map[string]*regexp.Regexp
}

// Compile parses and compiles a path template.
func Compile(source string) (*Template, error) {
	tokens := tokenize(source)
	t := &Template{
		source:     source,
		tokens:     tokens,
		validators: make(map[string]*regexp.Regexp),
	}

	var route strings.Builder
	route.WriteString("(?i)^")
	for _, tok := range tokens {
		if !tok.param {
			route.WriteString(escapeString(tok.literal))
			continue
		}

		validator, err := regexp.Compile("^(?:" + tok.pattern + ")$")
		if err != nil {
			return nil, errors.Newf(errors.CodeInvalidTemplate,
				"Invalid pattern for parameter %q in %s", tok.name, source).Wrap(err)
		}
		t.validators[tok.name] = validator

		prefix := escapeString(tok.prefix)
		capture := "(?:" + tok.pattern + ")"
		if tok.repeat {
			capture += "(?:" + prefix + capture + ")*"
		}
		if tok.optional {
			if !tok.partial {
				capture = "(?:" + prefix + "(" + capture + "))?"
			} else {
				capture = prefix + "(" + capture + ")?"
			}
		} else {
			capture = prefix + "(" + capture + ")"
		}
		route.WriteString(capture)
	}

	pattern := route.String()
	pattern = strings.TrimSuffix(pattern, escapeString("/"))
	pattern += `(?:\/)?$`

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Newf(errors.CodeInvalidTemplate, "Invalid path template %s", source).Wrap(err)
	}
	t.re = re
	return t, nil
}

// String returns the source template.
func (t *Template) String() string {
	return t.source
}

// Params returns the parameter names in template order.
func (t *Template) Params() []string {
	var names []string
	for _, tok := range t.tokens {
		if tok.param {
			names = append(names, tok.name)
		}
	}
	return names
}

func tokenize(source string) []token {
	var tokens []token
	var path strings.Builder
	key := 0
	index := 0

	for _, m := range pathRegexp.FindAllStringSubmatchIndex(source, -1) {
		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return source[m[2*n]:m[2*n+1]]
		}

		path.WriteString(source[index:m[0]])
		index = m[1]

		if escaped := group(1); escaped != "" {
			path.WriteString(escaped[1:])
			continue
		}

		prefix, name, capture, grp, modifier, asterisk := group(2), group(3), group(4), group(5), group(6), group(7)
		next := ""
		if index < len(source) {
			next = source[index : index+1]
		}
		partial := prefix != "" && next != "" && next != prefix

		if path.Len() > 0 {
			tokens = append(tokens, token{literal: path.String()})
			path.Reset()
		}

		delimiter := prefix
		if delimiter == "" {
			delimiter = "/"
		}

		pattern := capture
		if pattern == "" {
			pattern = grp
		}
		switch {
		case pattern != "":
			pattern = escapeGroupRegexp.ReplaceAllString(pattern, `\$1`)
		case asterisk != "":
			pattern = ".*"
		default:
			pattern = "[^" + escapeString(delimiter) + "]+?"
		}

		if name == "" {
			name = strconv.Itoa(key)
			key++
		}

		tokens = append(tokens, token{
			param:     true,
			name:      name,
			prefix:    prefix,
			delimiter: delimiter,
			optional:  modifier == "?" || modifier == "*",
			repeat:    modifier == "+" || modifier == "*",
			partial:   partial,
			pattern:   pattern,
		})
	}

	if index < len(source) {
		path.WriteString(source[index:])
	}
	if path.Len() > 0 {
		tokens = append(tokens, token{literal: path.String()})
	}
	return tokens
}

func escapeString(s string) string {
	return escapeStringRegexp.ReplaceAllString(s, `\$1`)
}
