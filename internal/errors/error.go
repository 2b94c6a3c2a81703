package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a RouteError for programmatic handling.
type Kind string

const (
	KindConfig         Kind = "config"
	KindMatch          Kind = "match"
	KindMissingSignal  Kind = "missing_signal"
	KindNotImplemented Kind = "not_implemented"
	KindParam          Kind = "param"
)

// RouteError is a structured error with a code, a kind and documentation.
type RouteError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Kind is the error class.
	Kind Kind

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Wrapped
}

// Is reports a match against another RouteError with the same code, so
// that the exported sentinels work with errors.Is.
func (e *RouteError) Is(target error) bool {
	t, ok := target.(*RouteError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouteError) WithSuggestion(s string) *RouteError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *RouteError) WithDetail(d string) *RouteError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RouteError) Wrap(err error) *RouteError {
	e.Wrapped = err
	return e
}

// New creates a RouteError from a registered error code.
func New(code string) *RouteError {
	template, ok := registry[code]
	if !ok {
		return &RouteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouteError{
		Code:    code,
		Kind:    template.Kind,
		Message: template.Message,
		Detail:  template.Detail,
		DocURL:  template.DocURL,
	}
}

// Newf creates a RouteError from a registered code with a formatted message.
func Newf(code string, format string, args ...any) *RouteError {
	e := New(code)
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// FromError wraps a standard error in a RouteError. RouteErrors pass
// through unchanged.
func FromError(err error, code string) *RouteError {
	if err == nil {
		return nil
	}
	var re *RouteError
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// KindOf returns the kind of the first RouteError in err's chain, or ""
// when there is none.
func KindOf(err error) Kind {
	var re *RouteError
	if stderrors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsKind reports whether err carries a RouteError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Sentinels for errors.Is checks by kind.
var (
	ErrConfig         = &RouteError{Kind: KindConfig}
	ErrMatch          = &RouteError{Kind: KindMatch}
	ErrMissingSignal  = &RouteError{Kind: KindMissingSignal}
	ErrNotImplemented = &RouteError{Kind: KindNotImplemented}
	ErrParam          = &RouteError{Kind: KindParam}
)

// Is is errors.Is, re-exported so callers need a single errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
