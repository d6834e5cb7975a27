package cellwave

import (
	"errors"
	"fmt"
)

// ErrCircular marks a tracked read cycle: a computed that transitively reads
// itself while recomputing. Cycles through the escape hatch (a reaction
// writing a cell it only peeks at) are not errors and never produce this.
var ErrCircular = errors.New("circular dependency")

// ComputeError is the cached failure of a computed's function. Every Get
// returns the same error until an upstream change invalidates the node, so
// the failure poisons all transitive readers.
type ComputeError struct {
	From Node
	Err  error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("computed %s: %v", nodeLabel(e.From), e.Err)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}

// ReactionError reports a failed reaction run to the error sink. The
// reaction is disposed; the rest of the wave still runs.
type ReactionError struct {
	From Node
	Err  error
}

func (e *ReactionError) Error() string {
	return fmt.Sprintf("reaction %s: %v", nodeLabel(e.From), e.Err)
}

func (e *ReactionError) Unwrap() error {
	return e.Err
}

// CycleError reports that a single flush exceeded the host's wave ceiling,
// which almost always means a reaction keeps rewriting a cell it depends on
// instead of isolating the read.
type CycleError struct {
	Waves int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("flush exceeded %d waves without settling", e.Waves)
}

func nodeLabel(n Node) string {
	if n == nil {
		return "<system>"
	}
	if name := n.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", n.ID())
}
