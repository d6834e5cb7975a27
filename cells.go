package cellwave

// Cell is tracked mutable storage. Reads performed while a computed or
// reaction is running register a dependency edge; writes invalidate every
// dependent and, at top level, flush the resulting wave.
type Cell[T any] struct {
	node
	dependents

	sys   *System
	value T
	rev   uint32
	eq    func(prev, next T) bool
}

// NewCell creates a cell that treats every Set as a change, even when the
// new value equals the old one.
func NewCell[T any](s *System, initial T, opts ...NodeOption) *Cell[T] {
	c := &Cell[T]{
		sys:   s,
		value: initial,
		rev:   1,
		node:  s.newNode(kindCell, opts),
	}
	s.sources = append(s.sources, c)
	return c
}

// NewCellEq creates a cell that skips writes of an equal value: dependents
// stay valid and no wave is queued.
func NewCellEq[T comparable](s *System, initial T, opts ...NodeOption) *Cell[T] {
	c := NewCell(s, initial, opts...)
	c.eq = func(prev, next T) bool { return prev == next }
	return c
}

// Read returns the current value, registering a dependency edge when called
// under a running reader.
func (c *Cell[T]) Read() T {
	c.sys.recordRead(c)
	return c.value
}

// Peek returns the current value without registering a dependency. This is
// the escape hatch that lets a reaction combine a cell's value into its own
// output without subscribing to it.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set assigns a new value, bumps the revision and queues invalidation of
// every dependent. At top level the wave flushes before Set returns; inside
// a batch or a running flush it is deferred.
func (c *Cell[T]) Set(v T) {
	if c.eq != nil && c.eq(c.value, v) {
		return
	}
	c.value = v
	c.rev++
	s := c.sys
	s.invalidate(c)
	if s.atTopLevel() {
		s.flush()
	}
}

// Revision counts writes, starting at 1. Equal-value writes on a NewCellEq
// cell do not advance it.
func (c *Cell[T]) Revision() uint32 {
	return c.rev
}
