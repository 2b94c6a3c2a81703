// Package errors provides structured, actionable errors for routesync.
//
// Every failure the engine can raise carries a stable code (e.g. "R003")
// that maps to:
//   - a Kind used for programmatic handling (config, match, missing
//     signal, not implemented, param)
//   - a detailed explanation
//   - a documentation URL
//
// # Kinds
//
// Config errors are fatal at setup time: malformed route trees, props
// mappings without a signal, duplicate signal bindings. Match errors wrap
// a failing URL mapper. Missing-signal errors surface on the first match
// against a route naming an unknown signal. Param errors come from
// stringifying a route with badly typed values.
//
// # Usage
//
//	err := errors.Newf(errors.CodeDuplicateSignal,
//	    "The signal %s has already been bound to route %s.", name, path)
//
//	if errors.IsKind(err, errors.KindConfig) {
//	    fmt.Println(err.(*errors.RouteError).Format())
//	}
package errors
