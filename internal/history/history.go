// Package history implements a bounded undo/redo stack with debounced
// commits. Values are deep-cloned on the way in and on the way out, so
// stored snapshots are immune to later mutation of the live value.
//
// Debouncing is driven through an injectable Scheduler rather than bare
// timers, and every push carries a sequence number, so tests can run the
// commit pipeline without real time.
package history

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"
)

const (
	// DefaultLimit is the maximum number of retained snapshots.
	DefaultLimit = 5
	// DefaultDebounce is the window within which repeated pushes
	// collapse to a single commit of the latest value.
	DefaultDebounce = 300 * time.Millisecond
)

// Scheduler runs a function after a delay. The returned cancel func
// stops the pending run; calling it after the run is a no-op.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// NewTimerScheduler returns a Scheduler backed by wall-clock timers.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

// Options configures a Manager.
type Options[T any] struct {
	// Initial seeds the stack so an immediate Undo is a no-op rather
	// than an error.
	Initial T
	// Limit bounds the stack; zero means DefaultLimit.
	Limit int
	// Debounce is the commit window; zero means DefaultDebounce.
	Debounce time.Duration
	// Equal compares snapshots; nil means JSON deep equality.
	Equal func(a, b T) bool
	// OnApply is invoked with a clone of the snapshot restored by
	// Undo or Redo.
	OnApply func(T)
	// Scheduler drives debounced commits; nil means real timers.
	Scheduler Scheduler
}

// Manager is a generic undo/redo history.
type Manager[T any] struct {
	mu sync.Mutex

	entries []T
	index   int

	limit    int
	debounce time.Duration
	equal    func(a, b T) bool
	onApply  func(T)
	sched    Scheduler

	pending       *T
	pendingSeq    uint64
	cancelPending func()
}

// New creates a Manager seeded with opts.Initial.
func New[T any](opts Options[T]) *Manager[T] {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	equal := opts.Equal
	if equal == nil {
		equal = jsonEqual[T]
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = NewTimerScheduler()
	}
	return &Manager[T]{
		entries:  []T{clone(opts.Initial)},
		limit:    limit,
		debounce: debounce,
		equal:    equal,
		onApply:  opts.OnApply,
		sched:    sched,
	}
}

// Push records value for commit after the debounce window. Repeated
// pushes within the window replace the pending value; only the latest
// one is committed.
func (m *Manager[T]) Push(value T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := clone(value)
	m.pending = &v
	m.pendingSeq++
	seq := m.pendingSeq

	if m.cancelPending != nil {
		m.cancelPending()
	}
	m.cancelPending = m.sched.Schedule(m.debounce, func() {
		m.commitIfCurrent(seq)
	})
}

// Flush commits any pending value immediately. Safe to call when
// nothing is pending.
func (m *Manager[T]) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitPendingLocked()
}

// Close cancels any outstanding debounce timer without committing.
func (m *Manager[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelPending != nil {
		m.cancelPending()
		m.cancelPending = nil
	}
	m.pending = nil
}

func (m *Manager[T]) commitIfCurrent(seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// A later Push superseded this scheduled commit.
	if seq != m.pendingSeq {
		return
	}
	m.commitPendingLocked()
}

func (m *Manager[T]) commitPendingLocked() {
	if m.pending == nil {
		return
	}
	value := *m.pending
	m.pending = nil
	if m.cancelPending != nil {
		m.cancelPending()
		m.cancelPending = nil
	}

	// Committing discards any redo branch past the current pointer.
	entries := m.entries[:m.index+1]

	if len(entries) > 0 && m.equal(entries[len(entries)-1], value) {
		return
	}

	entries = append(entries[:len(entries):len(entries)], value)
	if len(entries) > m.limit {
		entries = entries[len(entries)-m.limit:]
	}
	m.entries = entries
	m.index = len(entries) - 1
}

// Undo moves the pointer back one snapshot and applies it. It returns
// false (and applies nothing) when already at the oldest entry.
func (m *Manager[T]) Undo() (T, bool) {
	return m.apply(-1)
}

// Redo moves the pointer forward one snapshot and applies it. It
// returns false when already at the newest entry.
func (m *Manager[T]) Redo() (T, bool) {
	return m.apply(1)
}

func (m *Manager[T]) apply(delta int) (T, bool) {
	m.mu.Lock()
	// A push still inside its debounce window must land first, or the
	// step would skip the newest snapshot and have it commit on top of
	// the restored one later.
	m.commitPendingLocked()
	next := m.index + delta
	if next < 0 || next >= len(m.entries) {
		m.mu.Unlock()
		var zero T
		return zero, false
	}
	m.index = next
	snapshot := clone(m.entries[next])
	onApply := m.onApply
	m.mu.Unlock()

	if onApply != nil {
		onApply(snapshot)
	}
	return snapshot, true
}

// Len reports the number of committed snapshots.
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// CanUndo reports whether Undo would apply a snapshot.
func (m *Manager[T]) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index > 0
}

// CanRedo reports whether Redo would apply a snapshot.
func (m *Manager[T]) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index < len(m.entries)-1
}

func clone[T any](v T) T {
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
	da, errA := json.Marshal(a)
	db, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(da, db)
}
