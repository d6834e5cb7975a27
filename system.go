// Package cellwave is a small reactive dataflow engine: mutable cells with
// tracked reads, lazily memoized computeds, eager side-effecting reactions,
// and a wave scheduler that batches the fallout of one external event into a
// single coherent flush.
package cellwave

import "time"

// OnErrorFunc receives failures that have no return path to a caller:
// reaction errors and wave-ceiling exhaustion. from is nil for system-level
// errors.
type OnErrorFunc func(from Node, err error)

type schedulerState uint8

const (
	stateIdle schedulerState = iota
	stateCollecting
	stateFlushing
)

// System owns one reactive graph: the tracker stack, the wave queue and the
// timer heap. It is single-goroutine; hosts running several independent
// systems in parallel share nothing unless they opt into a SharedValue.
type System struct {
	onError   OnErrorFunc
	clock     func() time.Time
	waveLimit int

	// tracker
	active     reader
	pauseStack []reader

	// scheduler
	state      schedulerState
	batchDepth int
	pending    []*Reaction

	// timers
	timers   timerHeap
	timerSeq uint64

	// arena of every source ever created, for graph dumps
	nextID  uint64
	sources []source
}

// Option configures a System.
type Option func(*System)

// WithClock swaps the time source used for timer deadlines. Tests use this
// to drive Tick deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *System) { s.clock = now }
}

// WithWaveLimit caps how many waves a single flush may generate before the
// scheduler gives up and reports a CycleError. Zero means unlimited: an
// unconditionally self-rewriting reaction then loops forever, which is the
// host's bug to avoid via isolation, not the engine's to detect.
func WithWaveLimit(n int) Option {
	return func(s *System) { s.waveLimit = n }
}

func NewSystem(onError OnErrorFunc, opts ...Option) *System {
	s := &System{
		onError: onError,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *System) newNode(kind nodeKind, opts []NodeOption) node {
	s.nextID++
	n := node{id: s.nextID, kind: kind}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// recordRead registers src on whatever reader is currently running, if any.
func (s *System) recordRead(src source) {
	if s.active != nil {
		s.active.observe(src)
	}
}

// atTopLevel reports whether the current call stack is outside any tracked
// run, batch or flush, i.e. the point where a collected wave may be flushed.
func (s *System) atTopLevel() bool {
	return s.batchDepth == 0 && s.state == stateIdle && s.active == nil
}

// PauseTracking suspends dependency recording until the matching
// ResumeTracking. Reads in between register no edges.
func (s *System) PauseTracking() {
	s.pauseStack = append(s.pauseStack, s.active)
	s.active = nil
}

func (s *System) ResumeTracking() {
	lastIdx := len(s.pauseStack) - 1
	s.active = s.pauseStack[lastIdx]
	s.pauseStack = s.pauseStack[:lastIdx]
}

// Isolate runs fn with dependency recording suspended and returns its
// result. Reading a cell inside fn never subscribes the surrounding
// computed or reaction to it.
func Isolate[T any](s *System, fn func() T) T {
	s.PauseTracking()
	defer s.ResumeTracking()
	return fn()
}

func (s *System) StartBatch() {
	s.batchDepth++
}

func (s *System) EndBatch() {
	s.batchDepth--
	if s.batchDepth == 0 && s.state == stateIdle && s.active == nil {
		s.flush()
	}
}

// Batch groups several writes into one external event: dependents are
// collected across all of them and flushed once at the end.
func (s *System) Batch(fn func()) {
	s.StartBatch()
	defer s.EndBatch()
	fn()
}

func (s *System) report(from Node, err error) {
	if s.onError != nil {
		s.onError(from, err)
	}
}
