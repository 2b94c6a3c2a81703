// Package addressbar models a browser address bar.
//
// Programmatic writes (Push, Replace) never emit change events; only user
// navigation does. The Memory implementation keeps everything in process
// and is what tests and the CLI use.
package addressbar

import (
	"strings"
	"sync"
)

// DefaultOrigin is the origin of a Memory created without one.
const DefaultOrigin = "http://localhost:3000"

// Mode is how the current value was written.
type Mode string

const (
	ModeInitial Mode = "initial"
	ModePush    Mode = "push"
	ModeReplace Mode = "replace"
)

// ChangeEvent is dispatched when the user navigates.
type ChangeEvent struct {
	// URL is the absolute target URL.
	URL string

	prevented bool
}

// PreventDefault cancels the navigation.
func (e *ChangeEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether a listener cancelled the navigation.
func (e *ChangeEvent) DefaultPrevented() bool {
	return e.prevented
}

// Listener handles change events.
type Listener func(e *ChangeEvent) error

// Addressbar is the address bar as seen by the router.
type Addressbar interface {
	// Value returns the absolute URL.
	Value() string
	Origin() string
	// Pathname returns the path of the current URL without query or fragment.
	Pathname() string
	Push(url string)
	Replace(url string)
	// OnChange subscribes to navigation events. The returned function
	// removes the listener.
	OnChange(l Listener) func()
}

// Entry is one history record.
type Entry struct {
	URL  string
	Mode Mode
}

// Memory is an in-process Addressbar.
type Memory struct {
	mu        sync.Mutex
	origin    string
	value     string
	mode      Mode
	history   []Entry
	listeners map[int]Listener
	order     []int
	nextID    int
}

// NewMemory creates an address bar at origin + "/". An empty origin uses
// DefaultOrigin.
func NewMemory(origin string) *Memory {
	if origin == "" {
		origin = DefaultOrigin
	}
	origin = strings.TrimSuffix(origin, "/")
	return &Memory{
		origin:    origin,
		value:     origin + "/",
		mode:      ModeInitial,
		listeners: make(map[int]Listener),
	}
}

// Value returns the absolute URL.
func (m *Memory) Value() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// Origin returns scheme and host.
func (m *Memory) Origin() string {
	return m.origin
}

// Pathname returns the path of the current URL.
func (m *Memory) Pathname() string {
	return Pathname(m.Value(), m.origin)
}

// Push writes a new history entry. u may be absolute or origin-relative.
func (m *Memory) Push(u string) {
	m.write(u, ModePush)
}

// Replace overwrites the current history entry.
func (m *Memory) Replace(u string) {
	m.write(u, ModeReplace)
}

// LastChangedWith returns how the current value was written.
func (m *Memory) LastChangedWith() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// History returns a copy of the history entries.
func (m *Memory) History() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.history))
	copy(out, m.history)
	return out
}

// OnChange subscribes l to change events.
func (m *Memory) OnChange(l Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	m.order = append(m.order, id)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// RemoveAllListeners drops every change listener.
func (m *Memory) RemoveAllListeners() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = make(map[int]Listener)
	m.order = nil
}

// Emit simulates user navigation to u. Listeners run in subscription
// order; the first error stops dispatch and is returned. The URL is
// applied only when no listener prevented the default and none failed.
func (m *Memory) Emit(u string) (prevented bool, err error) {
	e := &ChangeEvent{URL: m.absolute(u)}

	for _, l := range m.snapshot() {
		if err := l(e); err != nil {
			return e.prevented, err
		}
	}

	if !e.prevented {
		m.Push(e.URL)
	}
	return e.prevented, nil
}

func (m *Memory) snapshot() []Listener {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Listener, 0, len(m.listeners))
	for _, id := range m.order {
		if l, ok := m.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

func (m *Memory) write(u string, mode Mode) {
	abs := m.absolute(u)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = abs
	m.mode = mode
	m.history = append(m.history, Entry{URL: abs, Mode: mode})
}

func (m *Memory) absolute(u string) string {
	rest := strings.TrimPrefix(u, m.origin)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return m.origin + rest
}

// Pathname extracts the path from an absolute URL with the given origin.
func Pathname(value, origin string) string {
	rest := strings.TrimPrefix(value, origin)
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "/"
	}
	return rest
}
