package filterstate

import "sync"

// Location is the address-bar analogue the store binds to: a set of
// named query parameters holding shareable view state. Implementations
// must replace, not stack, entries so filter tweaks do not pollute any
// navigation history the location keeps.
type Location interface {
	// Param returns the raw serialized value for key, or "" when absent.
	Param(key string) string
	// ReplaceParam overwrites the value for key in place.
	ReplaceParam(key, value string)
}

// MemLocation is an in-process Location. The TUI uses it as the backing
// store for deep-link state; tests drive external changes through
// SetExternal.
type MemLocation struct {
	mu     sync.Mutex
	params map[string]string
}

// NewMemLocation returns an empty MemLocation.
func NewMemLocation() *MemLocation {
	return &MemLocation{params: make(map[string]string)}
}

// NewMemLocationFrom seeds a MemLocation with existing parameters, e.g.
// parsed from a pasted deep link.
func NewMemLocationFrom(params map[string]string) *MemLocation {
	loc := NewMemLocation()
	for k, v := range params {
		loc.params[k] = v
	}
	return loc
}

func (l *MemLocation) Param(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params[key]
}

func (l *MemLocation) ReplaceParam(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if value == "" {
		delete(l.params, key)
		return
	}
	l.params[key] = value
}

// SetExternal simulates a change arriving from outside the store, such
// as back/forward navigation or a hand-edited link.
func (l *MemLocation) SetExternal(key, value string) {
	l.ReplaceParam(key, value)
}

// Snapshot returns a copy of all parameters, for building share links.
func (l *MemLocation) Snapshot() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.params))
	for k, v := range l.params {
		out[k] = v
	}
	return out
}
