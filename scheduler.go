package cellwave

// invalidate marks every dependent of src stale, recursing through computeds
// and queueing reactions. The validity and pending flags double as the
// per-wave visited memo: a node reachable over multiple paths is marked
// exactly once.
func (s *System) invalidate(src source) {
	prev := s.state
	if prev == stateIdle {
		s.state = stateCollecting
	}
	src.eachDependent(func(r reader) {
		r.markStale(s)
	})
	if prev == stateIdle {
		s.state = stateIdle
	}
}

// schedule queues a reaction for the wave currently being assembled. During
// a flush the pending slice doubles as the next wave's queue, so a write
// performed by a running reaction starts a new wave instead of re-entering
// the current one.
func (s *System) schedule(r *Reaction) {
	s.pending = append(s.pending, r)
}

// Flush drains every pending wave. Hosts call it after external events when
// they need an explicit synchronous point; it is a no-op mid-flush and while
// a batch is open.
func (s *System) Flush() {
	if s.batchDepth > 0 || s.state == stateFlushing {
		return
	}
	s.flush()
}

func (s *System) flush() {
	if s.state == stateFlushing {
		return
	}
	s.state = stateFlushing
	defer func() { s.state = stateIdle }()

	waves := 0
	for len(s.pending) > 0 {
		waves++
		if s.waveLimit > 0 && waves > s.waveLimit {
			for _, r := range s.pending {
				r.pending = false
			}
			s.pending = nil
			s.report(nil, &CycleError{Waves: waves - 1})
			return
		}

		wave := s.pending
		s.pending = nil
		for _, r := range wave {
			r.pending = false
			if r.disposed {
				continue
			}
			s.runReaction(r)
		}
	}
}

func (s *System) runReaction(r *Reaction) {
	prev := s.active
	s.active = r
	r.begin()
	defer func() {
		s.active = prev
		if r.disposed {
			// Disposed itself mid-run: its quiescent point is now.
			r.unlink(r)
			return
		}
		r.commit(r)
	}()
	if err := r.fn(); err != nil {
		r.Dispose()
		s.report(r, &ReactionError{From: r, Err: err})
	}
}
