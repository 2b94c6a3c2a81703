// Package routepath validates navigation targets reported by remote address
// bars before they reach a router.
//
// Targets are not canonicalized: typed route values such as "/items/:3" or
// "%3A2" must reach the mapper exactly as the browser sent them.
package routepath

import (
	"errors"
	"strings"
)

var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrForeignOrigin        = errors.New("url points to another origin")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Validate checks raw against origin and returns the absolute URL.
//
// raw is either absolute with the given origin or a path starting with "/".
// An empty raw is the origin root.
func Validate(raw, origin string) (string, error) {
	rest := raw
	switch {
	case origin != "" && (rest == origin || strings.HasPrefix(rest, origin+"/") ||
		strings.HasPrefix(rest, origin+"?") || strings.HasPrefix(rest, origin+"#")):
		rest = strings.TrimPrefix(rest, origin)
	case strings.HasPrefix(rest, "//") || strings.Contains(rest, "://"):
		return "", ErrForeignOrigin
	}
	if rest == "" {
		rest = "/"
	}
	if rest[0] == '?' || rest[0] == '#' {
		rest = "/" + rest
	}
	if rest[0] != '/' {
		return "", ErrInvalidPath
	}

	path, _ := SplitPathAndQuery(rest)
	if err := checkPath(path); err != nil {
		return "", err
	}
	return origin + rest, nil
}

// SplitPathAndQuery splits a relative URL into its path and the remainder
// starting at the first "?" or "#".
func SplitPathAndQuery(input string) (path, rest string) {
	if i := strings.IndexAny(input, "?#"); i >= 0 {
		return input[:i], input[i:]
	}
	return input, ""
}

func checkPath(path string) error {
	if strings.Contains(path, "\\") {
		return ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return err
		}
	}

	depth := 0
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		switch seg {
		case "", ".":
		case "..":
			if depth == 0 {
				return ErrPathEscapesRoot
			}
			depth--
		default:
			depth++
		}
	}
	return nil
}

// validatePercentEscapes checks that every "%" starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
