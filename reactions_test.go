package cellwave_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/cellwave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicReaction(t *testing.T) {
	sys := cellwave.NewSystem(failSink(t))

	count := cellwave.NewCell(sys, 1)
	runCount := 0
	r := cellwave.NewReaction(sys, func() error {
		count.Read()
		runCount++
		return nil
	})
	assert.Equal(t, 1, runCount)

	count.Set(2)
	assert.Equal(t, 2, runCount)

	r.Dispose()
	count.Set(3)
	assert.Equal(t, 2, runCount)
}

// glitch-freedom: two writes inside one batch schedule the reaction once,
// and it observes both new values
func TestGlitchFreeBatch(t *testing.T) {
	sys := cellwave.NewSystem(failSink(t))

	a := cellwave.NewCell(sys, 1)
	b := cellwave.NewCell(sys, 1)
	runCount := 0
	var seenA, seenB int
	cellwave.NewReaction(sys, func() error {
		seenA, seenB = a.Read(), b.Read()
		runCount++
		return nil
	})
	assert.Equal(t, 1, runCount)

	sys.Batch(func() {
		a.Set(2)
		b.Set(3)
	})
	assert.Equal(t, 2, runCount)
	assert.Equal(t, 2, seenA)
	assert.Equal(t, 3, seenB)
}

func TestUnbatchedWritesAreSeparateEvents(t *testing.T) {
	sys := cellwave.NewSystem(failSink(t))

	a := cellwave.NewCell(sys, 1)
	b := cellwave.NewCell(sys, 1)
	runCount := 0
	cellwave.NewReaction(sys, func() error {
		a.Read()
		b.Read()
		runCount++
		return nil
	})

	a.Set(2)
	b.Set(3)
	assert.Equal(t, 3, runCount)
}

// a write performed by a running reaction starts a new wave instead of
// re-entering the current one
func TestReactionWriteQueuesNewWave(t *testing.T) {
	sys := cellwave.NewSystem(failSink(t))

	y := cellwave.NewCell(sys, 0)
	x := cellwave.NewCell(sys, 0)

	cellwave.NewReaction(sys, func() error {
		x.Set(y.Read() * 10)
		return nil
	})

	var xLog []int
	cellwave.NewReaction(sys, func() error {
		xLog = append(xLog, x.Read())
		return nil
	})

	y.Set(1)
	assert.Equal(t, []int{0, 10}, xLog)
}

func TestReactionErrorDisposesAndReports(t *testing.T) {
	boom := errors.New("boom")
	var sank []error
	sys := cellwave.NewSystem(func(from cellwave.Node, err error) {
		sank = append(sank, err)
	})

	a := cellwave.NewCell(sys, 0)
	cellwave.NewReaction(sys, func() error {
		if a.Read() > 0 {
			return boom
		}
		return nil
	}, cellwave.Named("flaky"))

	goodRuns := 0
	cellwave.NewReaction(sys, func() error {
		a.Read()
		goodRuns++
		return nil
	})

	a.Set(1)
	require.Len(t, sank, 1)
	require.ErrorIs(t, sank[0], boom)
	var re *cellwave.ReactionError
	require.ErrorAs(t, sank[0], &re)
	assert.Equal(t, "flaky", re.From.Name())

	// the failing reaction did not abort the rest of the wave
	assert.Equal(t, 2, goodRuns)

	// and it is disposed, not retried
	a.Set(2)
	assert.Len(t, sank, 1)
	assert.Equal(t, 3, goodRuns)
}

func TestSelfDisposeTakesEffectAtQuiescentPoint(t *testing.T) {
	sys := cellwave.NewSystem(failSink(t))

	a := cellwave.NewCell(sys, 0)
	runCount := 0
	var r *cellwave.Reaction
	r = cellwave.NewReaction(sys, func() error {
		runCount++
		if a.Read() > 0 {
			r.Dispose()
		}
		return nil
	})
	assert.Equal(t, 1, runCount)

	a.Set(1)
	assert.Equal(t, 2, runCount)

	a.Set(2)
	assert.Equal(t, 2, runCount)
}

// an unconditionally self-rewriting reaction loops forever; the host-set
// wave ceiling turns that into a reported CycleError
func TestWaveCeiling(t *testing.T) {
	var sank []error
	sys := cellwave.NewSystem(func(from cellwave.Node, err error) {
		sank = append(sank, err)
	}, cellwave.WithWaveLimit(8))

	n := cellwave.NewCell(sys, 0)
	cellwave.NewReaction(sys, func() error {
		n.Set(n.Read() + 1)
		return nil
	})

	n.Set(100)
	require.Len(t, sank, 1)
	var ce *cellwave.CycleError
	require.ErrorAs(t, sank[0], &ce)
	assert.Equal(t, 8, ce.Waves)
}
