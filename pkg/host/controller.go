package host

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/deps"
)

// Action is one step of a signal.
type Action func(ctx *Context) error

// SignalFunc runs a signal with a payload.
type SignalFunc func(payload map[string]any) error

// Listener types for the controller lifecycle.
type (
	InitializedListener func() error
	StartListener       func(name string, payload map[string]any) error
	FlushListener       func(changes []deps.Change) error
)

// Controller owns the state tree, the signals and the providers.
type Controller struct {
	state     map[string]any
	signals   map[string][]Action
	providers map[string]any

	onInitialized []InitializedListener
	onStart       []StartListener
	onFlush       []FlushListener

	changes     []deps.Change
	initialized bool
	depth       int

	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithState sets the initial state tree. The map is owned by the
// controller afterwards.
func WithState(state map[string]any) Option {
	return func(c *Controller) {
		if state != nil {
			c.state = state
		}
	}
}

// WithSignals registers signals up front.
func WithSignals(signals map[string][]Action) Option {
	return func(c *Controller) {
		for name, actions := range signals {
			c.signals[name] = actions
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		state:     make(map[string]any),
		signals:   make(map[string][]Action),
		providers: make(map[string]any),
		logger:    slog.Default().With("component", "host"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddSignal registers or replaces a signal.
func (c *Controller) AddSignal(name string, actions ...Action) {
	c.signals[name] = actions
}

// Signals returns the registered signal names, sorted.
func (c *Controller) Signals() []string {
	names := make([]string, 0, len(c.signals))
	for name := range c.signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Provide registers a provider available to actions through
// Context.Provider.
func (c *Controller) Provide(name string, p any) {
	c.providers[name] = p
}

// Provider returns a registered provider or nil.
func (c *Controller) Provider(name string) any {
	return c.providers[name]
}

// OnInitialized registers a listener for Initialize. Listeners added
// after initialization never run.
func (c *Controller) OnInitialized(fn InitializedListener) {
	c.onInitialized = append(c.onInitialized, fn)
}

// OnStart registers a listener called before the actions of every signal.
func (c *Controller) OnStart(fn StartListener) {
	c.onStart = append(c.onStart, fn)
}

// OnFlush registers a listener called with the changes of every signal.
func (c *Controller) OnFlush(fn FlushListener) {
	c.onFlush = append(c.onFlush, fn)
}

// Initialize emits the initialized event once. The first listener error
// aborts initialization.
func (c *Controller) Initialize() error {
	if c.initialized {
		return nil
	}
	c.initialized = true
	for _, fn := range c.onInitialized {
		if err := fn(); err != nil {
			return err
		}
	}
	c.logger.Debug("controller initialized", "signals", len(c.signals))
	return nil
}

// Initialized reports whether Initialize has run.
func (c *Controller) Initialized() bool {
	return c.initialized
}

// GetState reads the state tree at a dot path. The empty path returns the
// root.
func (c *Controller) GetState(path string) any {
	return get(c.state, path)
}

// GetSignal returns a function running the named signal.
func (c *Controller) GetSignal(name string) (SignalFunc, error) {
	actions, ok := c.signals[name]
	if !ok {
		return nil, errors.Newf(errors.CodeMissingSignal,
			"The signal on path %q does not exist, please check path", name)
	}
	return func(payload map[string]any) error {
		return c.RunSignal(name, actions, payload)
	}, nil
}

// RunSignal runs actions as a signal called name. Start listeners run
// first and may abort the signal. Changes are flushed once the actions
// finish, including when an action fails.
func (c *Controller) RunSignal(name string, actions []Action, payload map[string]any) (err error) {
	if payload == nil {
		payload = map[string]any{}
	}

	c.depth++
	defer func() {
		c.depth--
		if flushErr := c.Flush(); err == nil {
			err = flushErr
		}
	}()

	c.logger.Debug("signal start", "signal", name, "depth", c.depth)
	for _, fn := range c.onStart {
		if err := fn(name, payload); err != nil {
			return err
		}
	}

	ctx := &Context{Name: name, Props: payload, controller: c}
	for i, action := range actions {
		if err := action(ctx); err != nil {
			return fmt.Errorf("signal %s: action %d: %w", name, i, err)
		}
	}
	return nil
}

// Set writes a value outside of a signal. The change is flushed on the
// next Flush or at the end of the next signal.
func (c *Controller) Set(path string, v any) {
	set(c.state, path, v)
	c.record(path, true)
}

// Unset removes a path outside of a signal.
func (c *Controller) Unset(path string) {
	if unset(c.state, path) {
		c.record(path, true)
	}
}

// Flush emits the pending changes to the flush listeners. Nothing is
// emitted when there are no changes.
func (c *Controller) Flush() error {
	if len(c.changes) == 0 {
		return nil
	}
	changes := c.changes
	c.changes = nil

	c.logger.Debug("flush", "changes", len(changes))
	for _, fn := range c.onFlush {
		if err := fn(changes); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns the changes recorded since the last flush.
func (c *Controller) Pending() []deps.Change {
	return c.changes
}

func (c *Controller) record(path string, force bool) {
	c.changes = append(c.changes, deps.Change{
		Path:                  strings.Split(path, "."),
		ForceChildPathUpdates: force,
	})
}
