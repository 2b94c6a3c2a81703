// Package routes compiles nested route definitions into a flat table.
//
// Each route joins its path to its parent's, so
//
//	[]routes.Route{{
//	    Path:   "/projects",
//	    Signal: "projectsRouted",
//	    Routes: []routes.Route{{Path: "/:id", Signal: "projectRouted"}},
//	}}
//
// compiles to the entries "/projects/:id" and "/projects", in that order.
// Parents stay matchable on their own.
//
// Forward mappings (Map) are split by binding: state paths are written back
// to state on every match, props paths build the signal payload, and
// computations get a Tracker so they can be recomputed selectively when
// state changes. Reverse mappings (RMap) keep only their computations.
package routes
