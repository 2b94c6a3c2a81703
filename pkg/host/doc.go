// Package host is a small state container with named signals.
//
// A Controller owns a tree of nested maps addressed by dot paths. Signals
// are named lists of actions; running one emits "start", runs the actions
// in order and then emits "flush" with the paths the actions changed.
//
//	c := host.New(host.WithState(map[string]any{"page": "home"}))
//	c.AddSignal("pageChanged", func(ctx *host.Context) error {
//	    ctx.Set("page", ctx.Props["page"])
//	    return nil
//	})
//	if err := c.Initialize(); err != nil {
//	    return err
//	}
//	run, _ := c.GetSignal("pageChanged")
//	run(map[string]any{"page": "about"})
//
// Controllers are not safe for concurrent use. Drive them from a single
// goroutine.
package host
