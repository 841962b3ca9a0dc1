// Package filterstate binds a filter value to one serialized query
// parameter of a Location, with undo/redo history. State flows both
// ways: local edits are written through to the location, and external
// location changes (back/forward navigation, hand-edited links) win over
// local state and land in history so undo stays consistent.
package filterstate

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/internal/history"
)

// DefaultParamKey is the query parameter used when none is configured.
const DefaultParamKey = "filters"

// Options configures a Store.
type Options[T any] struct {
	// Initial is the fallback value when the location parameter is
	// absent or malformed. Parsed parameters are merged over it, so
	// fields missing from an old link keep their defaults.
	Initial  T
	Location Location
	// ParamKey is the query parameter name; empty means DefaultParamKey.
	ParamKey     string
	HistoryLimit int
	Debounce     time.Duration
	Scheduler    history.Scheduler
	// Equal compares filter values; nil means JSON deep equality.
	Equal func(a, b T) bool
	// OnChange fires when the value changes through undo/redo or an
	// external location change — not through Set, whose caller
	// already knows the new value.
	OnChange func(T)
	Logger   zerolog.Logger
}

// Store synchronizes a filter value with a Location parameter.
type Store[T any] struct {
	mu sync.Mutex

	loc      Location
	key      string
	initial  T
	value    T
	lastSent string
	equal    func(a, b T) bool
	onChange func(T)
	log      zerolog.Logger

	hist *history.Manager[T]
}

// New creates a Store, restoring state from the location parameter when
// present. A malformed parameter logs a warning and falls back to the
// initial value; it never fails construction.
func New[T any](opts Options[T]) *Store[T] {
	key := opts.ParamKey
	if key == "" {
		key = DefaultParamKey
	}
	equal := opts.Equal
	if equal == nil {
		equal = jsonEqual[T]
	}

	s := &Store[T]{
		loc:      opts.Location,
		key:      key,
		initial:  cloneJSON(opts.Initial),
		equal:    equal,
		onChange: opts.OnChange,
		log:      opts.Logger,
	}

	raw := opts.Location.Param(key)
	if raw == "" {
		s.value = cloneJSON(opts.Initial)
		s.lastSent = marshal(s.value)
	} else if parsed, ok := s.parse(raw); ok {
		s.value = parsed
		s.lastSent = raw
	} else {
		s.value = cloneJSON(opts.Initial)
		s.lastSent = marshal(s.value)
	}

	s.hist = history.New(history.Options[T]{
		Initial:   s.value,
		Limit:     opts.HistoryLimit,
		Debounce:  opts.Debounce,
		Equal:     equal,
		Scheduler: opts.Scheduler,
		OnApply:   s.applySnapshot,
	})
	return s
}

// parse merges raw over a clone of the initial value.
func (s *Store[T]) parse(raw string) (T, bool) {
	merged := cloneJSON(s.initial)
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		s.log.Warn().Err(err).Str("param", s.key).Msg("ignoring malformed filter parameter")
		var zero T
		return zero, false
	}
	return merged, true
}

// Value returns a clone of the current filter value.
func (s *Store[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneJSON(s.value)
}

// Set applies updater to the current value. An update that leaves the
// value equal is a complete no-op: no history push, no location write.
// Otherwise the new value is pushed to history (debounced) and written
// to the location synchronously.
func (s *Store[T]) Set(updater func(prev T) T) T {
	s.mu.Lock()
	next := updater(cloneJSON(s.value))
	if s.equal(s.value, next) {
		prev := s.value
		s.mu.Unlock()
		return prev
	}
	s.value = next
	s.writeLocked(next)
	s.mu.Unlock()

	s.hist.Push(next)
	return next
}

// SetValue replaces the value directly. See Set for semantics.
func (s *Store[T]) SetValue(next T) T {
	return s.Set(func(T) T { return next })
}

// writeLocked serializes v into the location parameter, replacing the
// current entry. Tracking lastSent keeps the store's own writes from
// re-entering the external-change path.
func (s *Store[T]) writeLocked(v T) {
	serialized := marshal(v)
	if serialized == s.lastSent {
		return
	}
	s.lastSent = serialized
	s.loc.ReplaceParam(s.key, serialized)
}

// applySnapshot is the history OnApply hook: undo/redo restores state
// and writes it through to the location.
func (s *Store[T]) applySnapshot(v T) {
	s.mu.Lock()
	s.value = v
	s.writeLocked(v)
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(cloneJSON(v))
	}
}

// SyncFromLocation diffs the location parameter against the last value
// this store wrote. A differing external value wins: state is updated,
// the value is pushed into history, and OnChange fires. It reports
// whether the value changed.
func (s *Store[T]) SyncFromLocation() bool {
	s.mu.Lock()
	raw := s.loc.Param(s.key)
	if raw == "" || raw == s.lastSent {
		s.mu.Unlock()
		return false
	}
	parsed, ok := s.parse(raw)
	if !ok {
		s.mu.Unlock()
		return false
	}
	if s.equal(parsed, s.value) {
		s.lastSent = raw
		s.mu.Unlock()
		return false
	}
	s.value = parsed
	s.lastSent = raw
	onChange := s.onChange
	s.mu.Unlock()

	s.hist.Push(parsed)
	if onChange != nil {
		onChange(cloneJSON(parsed))
	}
	return true
}

// Undo restores the previous filter snapshot, if any.
func (s *Store[T]) Undo() (T, bool) {
	return s.hist.Undo()
}

// Redo restores the next filter snapshot, if any.
func (s *Store[T]) Redo() (T, bool) {
	return s.hist.Redo()
}

// Close releases the debounce timer held by the history manager.
func (s *Store[T]) Close() {
	s.hist.Close()
}

func marshal[T any](v T) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func cloneJSON[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func jsonEqual[T any](a, b T) bool {
	return marshal(a) == marshal(b)
}
