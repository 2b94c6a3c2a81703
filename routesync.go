// Package routesync provides the public API for binding a URL address bar
// to a state tree.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/routesync"
//
// Usage:
//
//	app, err := routesync.New(routesync.Config{
//	    Routes: []routesync.Route{
//	        {Path: "/", Signal: "home"},
//	        {Path: "/items/:id", Signal: "item", Map: map[string]routesync.Value{
//	            "id": routesync.Props("id"),
//	        }},
//	    },
//	    Signals: map[string][]routesync.Action{
//	        "item": {loadItem},
//	    },
//	})
//
//	session, err := app.NewSession(routesync.NewMemoryAddressbar(""))
package routesync

import (
	"github.com/vango-dev/routesync/pkg/addressbar"
	"github.com/vango-dev/routesync/pkg/compute"
	"github.com/vango-dev/routesync/pkg/host"
	"github.com/vango-dev/routesync/pkg/router"
	"github.com/vango-dev/routesync/pkg/routes"
)

// =============================================================================
// Routes
// =============================================================================

// Route is one node of a route tree.
type Route = routes.Route

// Value is anything a mapping can bind to.
type Value = compute.Value

// State binds a mapping to a state path.
var State = compute.State

// Props binds a mapping to a signal payload path.
var Props = compute.Props

// Compute builds a computation over state and props.
var Compute = compute.Compute

// =============================================================================
// Host
// =============================================================================

// Action is one step of a signal.
type Action = host.Action

// Context is passed to every action of a running signal.
type Context = host.Context

// =============================================================================
// Navigation
// =============================================================================

// Addressbar is the address bar as seen by the router.
type Addressbar = addressbar.Addressbar

// NewMemoryAddressbar returns an in-process address bar at origin + "/".
var NewMemoryAddressbar = addressbar.NewMemory

// GoTo returns an action navigating to a URL.
var GoTo = router.GoTo

// Redirect returns an action replacing the URL.
var Redirect = router.Redirect

// RedirectToSignal returns an action running a signal bound to a route.
var RedirectToSignal = router.RedirectToSignal
