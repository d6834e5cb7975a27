package cellwave

import (
	"fmt"
	"io"
)

// WriteDot emits the live dependency graph in Graphviz dot form. Only
// source→reader edges exist in the graph: a write performed from inside a
// reaction body leaves no writer→cell edge, so escape-hatch relationships
// never show up here.
func (s *System) WriteDot(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph cellwave {"); err != nil {
		return err
	}

	seen := map[uint64]bool{}
	declare := func(n Node, kind nodeKind) error {
		if seen[n.ID()] {
			return nil
		}
		seen[n.ID()] = true
		shape := "box"
		switch kind {
		case kindComputed:
			shape = "ellipse"
		case kindReaction:
			shape = "diamond"
		}
		_, err := fmt.Fprintf(w, "\t%q [label=%q shape=%s];\n", dotID(n), nodeLabel(n), shape)
		return err
	}

	for _, src := range s.sources {
		if err := declare(src, src.graphKind()); err != nil {
			return err
		}
	}

	var errOut error
	for _, src := range s.sources {
		src.eachDependent(func(r reader) {
			if errOut != nil {
				return
			}
			if err := declare(r, r.graphKind()); err != nil {
				errOut = err
				return
			}
			if _, err := fmt.Fprintf(w, "\t%q -> %q;\n", dotID(src), dotID(r)); err != nil {
				errOut = err
			}
		})
		if errOut != nil {
			return errOut
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func dotID(n Node) string {
	if name := n.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("n%d", n.ID())
}
