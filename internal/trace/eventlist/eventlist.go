// Package eventlist implements the segmented, append-only event
// storage a Recorder writes into. A List supports exactly one writer
// goroutine appending new events plus any number of concurrent reader
// goroutines iterating a consistent prefix of what has been appended
// so far; this matches how a live collector hands a thread's list off
// to a background consumer while the traced thread keeps recording.
package eventlist

import (
	"iter"
	"sync/atomic"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// segmentSize bounds how many events live in one fixed-capacity chunk.
// Growing the list never reallocates or moves existing events, so a
// reader holding a pointer into a completed segment is never invalidated
// by a concurrent append.
const segmentSize = 1024

type segment struct {
	events [segmentSize]event.Event
	n      atomic.Int32 // events [0, n) are committed and safe to read
}

// List is a single-writer/multi-reader, append-only sequence of Events.
// The zero value is not usable; construct with New.
type List struct {
	segments atomic.Pointer[[]*segment]
}

// New returns an empty List.
func New() *List {
	l := &List{}

	empty := make([]*segment, 0)
	l.segments.Store(&empty)

	return l
}

// Append adds e to the list. Append must only ever be called from a
// single goroutine at a time per List (the owning Recorder's thread);
// concurrent readers of Len/All/Reverse are always safe.
func (l *List) Append(e event.Event) {
	segs := *l.segments.Load()

	var last *segment
	if len(segs) > 0 {
		last = segs[len(segs)-1]
	}

	if last == nil || last.n.Load() == segmentSize {
		last = &segment{}
		grown := append(append([]*segment{}, segs...), last)
		l.segments.Store(&grown)
	}

	idx := last.n.Load()
	last.events[idx] = e
	last.n.Store(idx + 1) // release: publishes events[idx] to readers
}

// CacheKey interns name and returns its handle. It delegates to the
// process-wide key table rather than a table private to this List: a
// merged or spliced list's events routinely get compared and folded
// (aggregate.Build, collection.Merge) across what were originally
// different Lists, which only produces correct results if their Keys
// all came from one table. See DESIGN.md for the full rationale.
func (l *List) CacheKey(name string) keytable.Key {
	return keytable.Global().Intern(name)
}

// StoreData builds the Payload for a Data event from a caller's value.
// String values are also interned into the process-wide key table (not
// just held in the Payload's S field) so a Data attribute's value can
// later be cross-referenced as a key in its own right, e.g. by a
// visitor grouping events by an attribute's value.
func (l *List) StoreData(v any) event.Payload {
	switch x := v.(type) {
	case bool:
		return event.Payload{Type: event.DataBool, B: x}
	case int:
		return event.Payload{Type: event.DataInt, I: int64(x)}
	case int64:
		return event.Payload{Type: event.DataInt, I: x}
	case uint64:
		return event.Payload{Type: event.DataUint, U: x}
	case float64:
		return event.Payload{Type: event.DataFloat, F: x}
	case string:
		keytable.Global().Intern(x)
		return event.Payload{Type: event.DataString, S: x}
	default:
		return event.Payload{}
	}
}

// IsEmpty reports whether the list has no committed events.
func (l *List) IsEmpty() bool {
	return l.Len() == 0
}

// Bounds returns the earliest and latest timestamps among committed
// events (a Timespan's End counts toward the latest bound). Both are
// zero if the list is empty.
func (l *List) Bounds() (tmin, tmax clock.Tick) {
	segs := *l.segments.Load()

	seen := false

	for _, s := range segs {
		n := int(s.n.Load())

		for i := range n {
			e := s.events[i]

			end := e.Time
			if e.End > end {
				end = e.End
			}

			if !seen {
				tmin, tmax = e.Time, end
				seen = true

				continue
			}

			if e.Time < tmin {
				tmin = e.Time
			}

			if end > tmax {
				tmax = end
			}
		}
	}

	return tmin, tmax
}

// Len returns the number of committed events. It is safe to call
// concurrently with Append; the writer's own in-flight Append may or
// may not be reflected depending on the race, by design (SWMR snapshot
// semantics, not a linearizable counter).
func (l *List) Len() int {
	segs := *l.segments.Load()

	total := 0
	for _, s := range segs {
		total += int(s.n.Load())
	}

	return total
}

// Splice moves other's segments onto the end of l and leaves other
// empty. It is used by the collector to hand a thread's accumulated
// events off into a Collection's merged list without copying events.
// Callers must ensure no writer is concurrently appending to either list.
func (l *List) Splice(other *List) {
	oldSegs := *other.segments.Load()
	if len(oldSegs) == 0 {
		return
	}

	mySegs := *l.segments.Load()
	grown := append(append([]*segment{}, mySegs...), oldSegs...)
	l.segments.Store(&grown)

	empty := make([]*segment, 0)
	other.segments.Store(&empty)
}

// Concat returns a new List referencing the segments of every input
// list in order, without mutating any of them. Unlike Splice, this is
// safe to call on Lists that still need to be read afterward (e.g.
// merging collections that callers may inspect again), because it
// never touches the sources' segment pointers, only copies them.
func Concat(lists ...*List) *List {
	var all []*segment

	for _, l := range lists {
		if l == nil {
			continue
		}

		all = append(all, *l.segments.Load()...)
	}

	out := New()
	snapshot := append([]*segment{}, all...)
	out.segments.Store(&snapshot)

	return out
}

// All iterates committed events from oldest to newest.
func (l *List) All() iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		segs := *l.segments.Load()

		for _, s := range segs {
			n := int(s.n.Load())
			for i := range n {
				if !yield(s.events[i]) {
					return
				}
			}
		}
	}
}

// Reverse iterates committed events from newest to oldest, the mirror
// of All.
func (l *List) Reverse() iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		segs := *l.segments.Load()

		for i := len(segs) - 1; i >= 0; i-- {
			s := segs[i]
			n := int(s.n.Load())

			for j := n - 1; j >= 0; j-- {
				if !yield(s.events[j]) {
					return
				}
			}
		}
	}
}
