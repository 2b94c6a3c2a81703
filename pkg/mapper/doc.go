// Package mapper matches URLs against path templates and renders templates
// back into URLs.
//
// # Templates
//
//	/projects/:id          named parameter (one segment)
//	/projects/:id?         optional parameter
//	/files/:path*          zero or more segments
//	/files/:path+          one or more segments
//	/items/:id(\d+)        parameter with a custom pattern
//	/(.*)                  unnamed group, exposed as "0", "1", ...
//	/static/*              asterisk, exposed like an unnamed group
//
// Matching is case-insensitive and tolerates one trailing slash. The
// fragment is ignored and the query string is decoded into the values
// alongside path parameters (path parameters win on conflicts).
//
// # Typed values
//
// Values survive a round trip through the URL with their type:
//
//	"foo"        -> foo
//	42           -> :42
//	true         -> :true
//	nil          -> :null
//	[]any{1, 2}  -> :[1,2]
//
// Decoding reverses this; integral numbers decode to int.
package mapper
