// Package compute implements resolvable values and dependency-tracked
// computations.
//
// A Value is one of four kinds, fixed when it is constructed:
//
//	Lit(v)              a literal, resolves to itself
//	State(parts...)     a path into the state tree
//	Props(parts...)     a path into the props (payload) map
//	Compute(args...)    a fold over literals, values and transforms
//
// Path templates concatenate their parts, resolving nested values, so
// State("items.", Props("id"), ".title") reads the title of the item whose
// id is in props. A path with a "*" segment resolves to the sorted keys of
// its parent instead of a value.
//
// Computations run their arguments left to right. Literals and resolved
// values are pushed; a Transform receives every result pushed since the
// previous transform (that transform's own result included) and its return
// value is pushed in turn. The last pushed value is the result:
//
//	full := compute.Compute(
//	    compute.State("user.first"),
//	    compute.State("user.last"),
//	    func(get compute.Getter, args ...any) any {
//	        return fmt.Sprint(args[0], " ", args[1])
//	    },
//	)
//
// A Tracker wraps a computation and records which state paths the last
// run read, so callers can skip recomputation when a change set does not
// touch them.
package compute
