package host

import (
	"github.com/vango-dev/routesync/pkg/compute"
)

// Context is passed to every action of a running signal.
type Context struct {
	// Name is the running signal.
	Name string

	// Props is the signal payload. Actions may add keys for later actions.
	Props map[string]any

	controller *Controller
}

// Get reads the state tree.
func (ctx *Context) Get(path string) any {
	return ctx.controller.GetState(path)
}

// Set writes the state tree and records the change.
func (ctx *Context) Set(path string, v any) {
	ctx.controller.Set(path, v)
}

// Unset removes a state path and records the change.
func (ctx *Context) Unset(path string) {
	ctx.controller.Unset(path)
}

// Merge writes every key of values below path.
func (ctx *Context) Merge(path string, values map[string]any) {
	target, ok := ctx.controller.GetState(path).(map[string]any)
	if !ok {
		target = make(map[string]any, len(values))
		set(ctx.controller.state, path, target)
	}
	for k, v := range values {
		target[k] = v
	}
	ctx.controller.record(path, true)
}

// Resolve evaluates v against the props and the state.
func (ctx *Context) Resolve(v compute.Value) (any, error) {
	return v.Resolve(ctx.compute())
}

// ResolvePath evaluates the path of a path template.
func (ctx *Context) ResolvePath(p *compute.PathValue) (string, error) {
	return p.Path(ctx.compute())
}

// Provider returns a provider registered on the controller, or nil.
func (ctx *Context) Provider(name string) any {
	return ctx.controller.Provider(name)
}

// Signal looks up another signal.
func (ctx *Context) Signal(name string) (SignalFunc, error) {
	return ctx.controller.GetSignal(name)
}

func (ctx *Context) compute() compute.Context {
	return compute.Context{Props: ctx.Props, State: ctx.controller.GetState}
}
