// Package collection implements the immutable bundle of per-thread
// event lists a collector hands off to subscribers. A Collection never
// changes after it is built, so multiple tree builders and exporters
// can walk the same Collection concurrently.
package collection

import (
	"iter"
	"maps"

	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// ThreadID identifies the goroutine (or foreign thread bridged through
// the scripting host) an event list belongs to.
type ThreadID int64

// Collection is an immutable thread-id -> event-list bundle produced by
// one collector handoff.
type Collection struct {
	seq     uint64
	threads map[ThreadID]*eventlist.List
}

// New builds a Collection from a snapshot of per-thread lists. The
// caller must not mutate threads or the lists it references afterward;
// ownership of the Lists transfers to the Collection.
func New(seq uint64, threads map[ThreadID]*eventlist.List) *Collection {
	return &Collection{seq: seq, threads: threads}
}

// Seq returns the monotonically increasing sequence number the
// collector assigned this handoff, used to order collections and to
// detect gaps if a subscriber is dropped.
func (c *Collection) Seq() uint64 {
	return c.seq
}

// Threads iterates the collection's thread ids in no particular order.
func (c *Collection) Threads() iter.Seq[ThreadID] {
	return maps.Keys(c.threads)
}

// Events returns the event list for a thread, or nil if the thread did
// not contribute to this collection.
func (c *Collection) Events(id ThreadID) *eventlist.List {
	return c.threads[id]
}

// Len returns the number of threads represented in the collection.
func (c *Collection) Len() int {
	return len(c.threads)
}

// Visitor receives a push-style walk of a Collection: one
// OnBeginThread/OnEndThread pair per thread, bracketing an OnEvent call
// per event that passes AcceptsCategory, all bracketed by one
// OnBeginCollection/OnEndCollection pair. This is the polymorphic
// capability set a systems language would express as a vtable or
// closure tuple; a Go interface plays the same role without requiring
// Collection or eventlist to know about any particular consumer
// (a report builder, an exporter, a category-filtered recorder bridge).
type Visitor interface {
	OnBeginCollection(c *Collection)
	OnEndCollection(c *Collection)
	OnBeginThread(id ThreadID)
	OnEndThread(id ThreadID)
	OnEvent(id ThreadID, name string, e event.Event)
	// AcceptsCategory reports whether events in cat should reach OnEvent.
	// Called once per event; a Visitor that only cares about a handful
	// of categories can precompute a set and do a cheap membership test.
	AcceptsCategory(cat uint32) bool
}

// Visit walks c, calling v's methods. Threads are visited in no
// particular order; events within a thread are visited in insertion
// order. names resolves each event's Key for OnEvent; a Visitor that
// doesn't care about display names may ignore the argument it's given.
func (c *Collection) Visit(v Visitor, names *keytable.Table) {
	v.OnBeginCollection(c)

	for id, list := range c.threads {
		v.OnBeginThread(id)

		for e := range list.All() {
			if !v.AcceptsCategory(e.Cat) {
				continue
			}

			v.OnEvent(id, names.Name(e.Key), e)
		}

		v.OnEndThread(id)
	}

	v.OnEndCollection(c)
}

// Merge combines multiple collections, produced by successive handoffs,
// into one by concatenating same-thread event lists in argument order
// with eventlist.Concat, which copies and leaves the inputs unchanged.
// The result's Seq is the highest input Seq. Merge is used by
// long-running reports that accumulate several handoff periods before
// building a tree.
func Merge(collections ...*Collection) *Collection {
	merged := make(map[ThreadID]*eventlist.List)

	var maxSeq uint64
	for _, c := range collections {
		if c == nil {
			continue
		}

		if c.seq > maxSeq {
			maxSeq = c.seq
		}

		for id, list := range c.threads {
			merged[id] = eventlist.Concat(merged[id], list)
		}
	}

	return New(maxSeq, merged)
}
