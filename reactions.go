package cellwave

import "time"

// Reaction is an eager side-effecting subscriber. It runs once at creation
// to discover its dependencies, then again during every flush in which at
// least one of them changed, at most once per wave.
type Reaction struct {
	node
	tracking

	sys      *System
	fn       func() error
	pending  bool
	disposed bool
	timer    *Timer
}

// NewReaction creates the reaction and runs it immediately. An error from
// the first run disposes it right away, same as any later run.
func NewReaction(s *System, fn func() error, opts ...NodeOption) *Reaction {
	r := &Reaction{
		sys:      s,
		fn:       fn,
		tracking: newTracking(),
		node:     s.newNode(kindReaction, opts),
	}
	s.runReaction(r)
	if s.atTopLevel() {
		s.flush()
	}
	return r
}

// markStale queues the reaction for the wave being assembled. The pending
// flag makes the run-once-per-wave guarantee: a reaction whose dependencies
// both changed in one event is still scheduled a single time.
func (r *Reaction) markStale(s *System) {
	if r.pending || r.disposed {
		return
	}
	r.pending = true
	s.schedule(r)
}

// Dispose removes the reaction from future scheduling and drops its
// dependency edges. Called from inside its own run it takes effect at the
// end of that run; the scheduler skips disposed reactions it had already
// queued.
func (r *Reaction) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.sys.active != r {
		r.unlink(r)
	}
}

// RearmAfter schedules the reaction to run again after d, independent of any
// dependency change. Re-arming replaces a previously armed timer. This backs
// polling-style reactions that fire on a period rather than on writes.
func (r *Reaction) RearmAfter(d time.Duration) *Timer {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = r.sys.ScheduleAfter(d, func() {
		if r.disposed {
			return
		}
		r.markStale(r.sys)
	})
	return r.timer
}
