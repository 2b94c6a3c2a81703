// Package deps decides whether a recorded set of state dependencies was
// touched by a batch of state changes.
//
// Dependencies are stored as a path trie: a nested map from path segment to
// child trie. Two keys are reserved:
//
//	*    any immediate child of the parent
//	**   any descendant of the parent
//
// A trie built from "foo.bar" is touched by a change to "foo.bar" or to
// "foo", but not by a change to "foo.bing". A trie built from "foo.**" is
// touched by any change at or below "foo".
package deps
