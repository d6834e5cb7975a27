package cellwave

import (
	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
)

type nodeKind uint8

const (
	kindCell nodeKind = iota
	kindComputed
	kindReaction
)

// Node identifies any participant in the graph to the host, mostly for
// error reporting and graph dumps.
type Node interface {
	ID() uint64
	Name() string
}

type node struct {
	id   uint64
	name string
	kind nodeKind
}

func (n *node) ID() uint64          { return n.id }
func (n *node) Name() string        { return n.name }
func (n *node) graphKind() nodeKind { return n.kind }

// NodeOption configures a cell, computed or reaction at creation.
type NodeOption func(*node)

// Named labels a node. Named nodes get a stable ID derived from the label,
// so graph dumps line up across process restarts.
func Named(name string) NodeOption {
	return func(n *node) {
		n.name = name
		n.id = xxhash.Sum64String(name)
	}
}

// A source is anything a reader can depend on: a cell or a computed.
type source interface {
	Node
	graphKind() nodeKind
	addDependent(r reader)
	removeDependent(r reader)
	eachDependent(fn func(r reader))
}

// A reader is anything that depends on sources: a computed or a reaction.
type reader interface {
	Node
	graphKind() nodeKind
	observe(src source)
	markStale(s *System)
}

// dependents is the source side of the edge list. Kept as a slice, in
// subscription order, so wave scheduling stays deterministic.
type dependents struct {
	readers []reader
}

func (d *dependents) addDependent(r reader) {
	d.readers = append(d.readers, r)
}

func (d *dependents) removeDependent(r reader) {
	revised := make([]reader, 0, len(d.readers))
	for _, existing := range d.readers {
		if existing != r {
			revised = append(revised, existing)
		}
	}
	d.readers = revised
}

func (d *dependents) eachDependent(fn func(r reader)) {
	for _, r := range d.readers {
		fn(r)
	}
}

// tracking is the reader side of the edge list. Every run collects the
// sources it touched into seen; commit then diffs seen against live so only
// stale edges are dropped and only new edges are added on the sources.
type tracking struct {
	live mapset.Set[source]
	seen mapset.Set[source]
}

func newTracking() tracking {
	return tracking{live: mapset.NewThreadUnsafeSet[source]()}
}

func (t *tracking) observe(src source) {
	if t.seen != nil {
		t.seen.Add(src)
	}
}

func (t *tracking) begin() {
	t.seen = mapset.NewThreadUnsafeSet[source]()
}

func (t *tracking) commit(self reader) {
	for src := range t.live.Difference(t.seen).Iter() {
		src.removeDependent(self)
	}
	for src := range t.seen.Difference(t.live).Iter() {
		src.addDependent(self)
	}
	t.live = t.seen
	t.seen = nil
}

// unlink drops every edge, used on dispose.
func (t *tracking) unlink(self reader) {
	for src := range t.live.Iter() {
		src.removeDependent(self)
	}
	t.live = mapset.NewThreadUnsafeSet[source]()
	t.seen = nil
}
