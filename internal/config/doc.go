// Package config loads route files.
//
// A route file holds the router options and the route tree. It is stored
// as routesync.json (or routesync.yaml, routesync.toml) at the project root,
// or as an S3 object addressed by an s3://bucket/key URI.
//
// # Route File Structure
//
//	{
//	  "baseUrl": "/app",
//	  "onlyHash": false,
//	  "routes": [
//	    {"path": "/", "signal": "home"},
//	    {
//	      "path": "/items/:id",
//	      "signal": "item",
//	      "map": {"id": "props:id", "tab": "state:items.tab"},
//	      "rmap": {"items.current": "props:id"}
//	    }
//	  ]
//	}
//
// Map values are "state:<path>" or "props:<path>". RMap keys are state
// paths; their values become single-reference computations.
//
// # Usage
//
//	f, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tree, err := f.Tree()
package config
