package cellwave

import (
	"container/heap"
	"context"
	"time"
)

// Timer is a scheduled external event. Timers with the same deadline fire in
// strict FIFO order of arming.
type Timer struct {
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
}

// Stop cancels the timer if it has not fired yet.
func (t *Timer) Stop() {
	t.stopped = true
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(*Timer))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// ScheduleAfter arms a timer that fires fn as its own external event: fn
// runs inside a batch and the resulting wave flushes before the next timer
// fires.
func (s *System) ScheduleAfter(d time.Duration, fn func()) *Timer {
	s.timerSeq++
	t := &Timer{
		at:  s.clock().Add(d),
		seq: s.timerSeq,
		fn:  fn,
	}
	heap.Push(&s.timers, t)
	return t
}

// Tick fires every timer due at the current clock reading, in deadline then
// arm order. Hosts driving an injected clock call this after advancing it.
func (s *System) Tick() {
	now := s.clock()
	for len(s.timers) > 0 {
		next := s.timers[0]
		if next.at.After(now) {
			break
		}
		heap.Pop(&s.timers)
		if next.stopped {
			continue
		}
		s.Batch(next.fn)
	}
}

// Serve sleeps until the next timer deadline and ticks, repeatedly, until
// the context is done or no timers remain armed. It must run on the
// goroutine that owns the system.
func (s *System) Serve(ctx context.Context) error {
	for {
		if len(s.timers) == 0 {
			return nil
		}
		wait := s.timers[0].at.Sub(s.clock())
		if wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		s.Tick()
	}
}
