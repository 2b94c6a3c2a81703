// Package router keeps an address bar and a host state tree in sync.
//
// Incoming URL changes are matched against the compiled route table;
// matched values are written to state and the bound signal is invoked.
// Outgoing, a routed signal renders its URL from its mapping, and state
// flushes re-render the URL of the active route when a mapped state path
// or a dependency of a computed mapping changed.
//
//	r, err := router.New(controller, bar, mapper.New(),
//	    router.WithRoutes(
//	        routes.Route{Path: "/", Signal: "home"},
//	        routes.Route{
//	            Path: "/:page",
//	            Map:  map[string]compute.Value{"page": compute.State("page")},
//	        },
//	    ),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := controller.Initialize(); err != nil {
//	    return err
//	}
//
// The router is driven entirely by host and address bar events and does
// no locking. All events must be delivered from one goroutine.
package router
