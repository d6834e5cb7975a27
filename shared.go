package cellwave

import "sync"

// SharedValue is the one sanctioned way to share state across otherwise
// independent systems (one system per served session, say). The value lives
// behind a mutex; each system mirrors it into a local cell and pulls with
// Sync on its own goroutine, so wave scheduling never crosses instances.
type SharedValue[T any] struct {
	mu  sync.Mutex
	val T
}

func NewSharedValue[T any](initial T) *SharedValue[T] {
	return &SharedValue[T]{val: initial}
}

// Set publishes a new value. Mirrors observe it on their next Sync.
func (sv *SharedValue[T]) Set(v T) {
	sv.mu.Lock()
	sv.val = v
	sv.mu.Unlock()
}

func (sv *SharedValue[T]) Get() T {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.val
}

// Mirror ties one system's local cell to a SharedValue.
type Mirror[T any] struct {
	shared *SharedValue[T]
	cell   *Cell[T]
}

// Mirror creates a local cell seeded with the current shared value. A
// polling reaction calling Sync (via RearmAfter) is the usual driver.
func (sv *SharedValue[T]) Mirror(s *System, opts ...NodeOption) *Mirror[T] {
	return &Mirror[T]{
		shared: sv,
		cell:   NewCell(s, sv.Get(), opts...),
	}
}

// MirrorEq is Mirror with equality skipping on the local cell, so a Sync
// that pulls an unchanged value queues no wave.
func MirrorEq[T comparable](sv *SharedValue[T], s *System, opts ...NodeOption) *Mirror[T] {
	return &Mirror[T]{
		shared: sv,
		cell:   NewCellEq(s, sv.Get(), opts...),
	}
}

// Cell exposes the local mirror cell for tracked reads.
func (m *Mirror[T]) Cell() *Cell[T] {
	return m.cell
}

// Sync pulls the current shared value into the local cell, queueing a wave
// when it differs only if the cell opted into equality skipping; the default
// cell treats every pull as a change.
func (m *Mirror[T]) Sync() {
	m.cell.Set(m.shared.Get())
}
