package cellwave

// Computed is a lazily memoized derived value. It is both a reader (it
// depends on cells and other computeds) and a source (reactions and other
// computeds may depend on it).
type Computed[T any] struct {
	node
	dependents
	tracking

	sys       *System
	fn        func() (T, error)
	value     T
	err       error
	valid     bool
	computing bool
	rev       uint32
}

func NewComputed[T any](s *System, fn func() (T, error), opts ...NodeOption) *Computed[T] {
	c := &Computed[T]{
		sys:      s,
		fn:       fn,
		tracking: newTracking(),
		node:     s.newNode(kindComputed, opts),
	}
	s.sources = append(s.sources, c)
	return c
}

// Get returns the cached value when valid, recomputing otherwise. A
// recompute runs under the tracker, so whatever it reads this time becomes
// the full new dependency set. A failing function has its error cached and
// re-returned to every caller until an upstream change invalidates the node.
func (c *Computed[T]) Get() (T, error) {
	s := c.sys
	s.recordRead(c)

	if c.valid {
		return c.value, c.err
	}
	if c.computing {
		var zero T
		return zero, &ComputeError{From: c, Err: ErrCircular}
	}

	c.computing = true
	prev := s.active
	s.active = c
	c.begin()
	defer func() {
		s.active = prev
		c.commit(c)
		c.computing = false
	}()

	v, err := c.fn()
	c.value = v
	if err != nil {
		c.err = &ComputeError{From: c, Err: err}
	} else {
		c.err = nil
	}
	c.valid = true
	c.rev++
	return c.value, c.err
}

// MustGet is Get for hosts that route computation failures elsewhere.
func (c *Computed[T]) MustGet() T {
	v, err := c.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// markStale flips validity off and recursively marks this node's own
// dependents. It never recomputes; that happens on the next Get.
func (c *Computed[T]) markStale(s *System) {
	if !c.valid {
		return
	}
	c.valid = false
	c.eachDependent(func(r reader) {
		r.markStale(s)
	})
}
