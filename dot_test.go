package cellwave_test

import (
	"strings"
	"testing"

	"github.com/delaneyj/cellwave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDotShowsOnlyReadEdges(t *testing.T) {
	sys := cellwave.NewSystem(failSink(t))

	src := cellwave.NewCell(sys, 1, cellwave.Named("src"))
	out := cellwave.NewCell(sys, 0, cellwave.Named("out"))
	dbl := cellwave.NewComputed(sys, func() (int, error) {
		return src.Read() * 2, nil
	}, cellwave.Named("dbl"))

	cellwave.NewReaction(sys, func() error {
		v, err := dbl.Get()
		if err != nil {
			return err
		}
		out.Set(v) // escape-hatch write, must not show up as an edge
		return nil
	}, cellwave.Named("eff"))

	var sb strings.Builder
	require.NoError(t, sys.WriteDot(&sb))
	dot := sb.String()

	assert.Contains(t, dot, `"src" -> "dbl"`)
	assert.Contains(t, dot, `"dbl" -> "eff"`)
	assert.NotContains(t, dot, `-> "out"`)
	assert.NotContains(t, dot, `"out" ->`)
	assert.Contains(t, dot, `"out" [label="out" shape=box]`)
}

func TestNamedNodesGetStableIDs(t *testing.T) {
	sysA := cellwave.NewSystem(failSink(t))
	sysB := cellwave.NewSystem(failSink(t))

	a := cellwave.NewCell(sysA, 1, cellwave.Named("totals"))
	b := cellwave.NewCell(sysB, 2, cellwave.Named("totals"))
	assert.Equal(t, a.ID(), b.ID())

	c := cellwave.NewCell(sysA, 1)
	d := cellwave.NewCell(sysA, 1)
	assert.NotEqual(t, c.ID(), d.ID())
}
