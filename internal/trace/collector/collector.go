// Package collector implements the process-wide tracing singleton: the
// enable flag the hot path checks before touching a Recorder, the
// category and thread registries, and the periodic handoff that turns
// accumulated per-thread event lists into an immutable Collection
// broadcast to subscribers.
package collector

import (
	"hash/fnv"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/recorder"
)

// maxSwapOutSpins bounds the busy-wait create_collection performs per
// thread waiting for a Recorder's writing flag to clear. A single
// Append holds the flag for, at most, the duration of constructing one
// Event and storing it; this many Gosched-yielding spins is many
// orders of magnitude longer than that, so in practice the loop exits
// on its first or second iteration and the bound only guards against
// a pathologically stalled writer goroutine.
const maxSwapOutSpins = 100000

// Cat identifies a trace category for filtering (e.g. enabling only
// "render" events). Cat(0) means "uncategorized" and is always enabled.
type Cat uint32

// NewCategory derives a stable Cat from a name. It is a pure function:
// the same name always yields the same Cat within and across processes,
// so categories don't need process-wide coordination to agree on an id.
func NewCategory(name string) Cat {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))

	return Cat(h.Sum32())
}

// Subscriber receives every Collection produced by a handoff.
type Subscriber interface {
	OnCollection(c *collection.Collection)
}

// SubscriberFunc adapts a function to a Subscriber.
type SubscriberFunc func(c *collection.Collection)

func (f SubscriberFunc) OnCollection(c *collection.Collection) { f(c) }

// Collector is the process-wide tracing entry point. The zero value is
// not usable; use Global or New.
type Collector struct {
	// enabled gates every recording call before a Recorder is even
	// looked up: Begin/End/Marker/etc. on the public facade all check
	// this first, so a disabled collector costs one atomic load.
	enabled atomic.Bool

	categoryNames sync.Map // Cat -> string

	threadsMu sync.RWMutex
	threads   map[int64]*recorder.Recorder

	subsMu  sync.RWMutex
	subs    map[int]Subscriber
	nextSub int

	seq atomic.Uint64
}

// New returns a disabled Collector with empty registries.
func New() *Collector {
	return &Collector{
		threads: make(map[int64]*recorder.Recorder),
		subs:    make(map[int]Subscriber),
	}
}

var global = New()

// Global returns the process-wide Collector backing pkg/trace.
func Global() *Collector {
	return global
}

// Enable turns recording on. Matches spec's required acquire/release
// ordering: everything a Recorder appends after Enable returns true to
// some goroutine is guaranteed visible to a handoff that later observes
// enabled==true.
func (c *Collector) Enable() {
	c.enabled.Store(true)
}

// Disable turns recording off. In-flight appends already past the
// enabled check still complete; Disable only stops new ones from starting.
func (c *Collector) Disable() {
	c.enabled.Store(false)
}

// IsEnabled reports the current enable state with acquire semantics.
func (c *Collector) IsEnabled() bool {
	return c.enabled.Load()
}

// RegisterCategory records a human-readable name for a Cat, for use by
// reports. It is idempotent; registering the same Cat with a different
// name keeps the first name, matching the assumption that NewCategory
// call sites for a given Cat always use the same literal.
func (c *Collector) RegisterCategory(cat Cat, name string) {
	c.categoryNames.LoadOrStore(cat, name)
}

// CategoryName returns the registered name for cat, or "" if unregistered.
func (c *Collector) CategoryName(cat Cat) string {
	v, ok := c.categoryNames.Load(cat)
	if !ok {
		return ""
	}

	return v.(string)
}

// Recorder returns the calling goroutine's Recorder, creating one on
// first use. goid.Get gives a stable per-goroutine integer that plays
// the role the original's thread-local storage played: a cheap,
// collision-free key a recording call can use to find its own Recorder
// without synchronizing with any other goroutine's.
func (c *Collector) Recorder() *recorder.Recorder {
	id := goid.Get()

	c.threadsMu.RLock()
	r, ok := c.threads[id]
	c.threadsMu.RUnlock()

	if ok {
		return r
	}

	c.threadsMu.Lock()
	defer c.threadsMu.Unlock()

	if r, ok = c.threads[id]; ok {
		return r
	}

	r = recorder.New()
	c.threads[id] = r

	return r
}

// Subscribe registers a Subscriber to receive every future Collection.
// The returned func unregisters it.
func (c *Collector) Subscribe(s Subscriber) (unsubscribe func()) {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = s
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

// CreateCollection performs a handoff: for every registered thread it
// busy-waits for a quiescent point (no Append in flight), splices the
// thread's accumulated events into a fresh immutable Collection, and
// leaves the Recorder's list empty to begin accumulating the next
// period. It assigns the next sequence number and broadcasts the
// result to subscribers before returning it.
//
// The busy-wait per thread is bounded (maxSwapOutSpins), matching the
// spec's "bounded busy-wait proportional to the longest outstanding
// single event-push": a writer only holds the flag for one Append's
// duration, so the wait is expected to resolve in a handful of spins.
func (c *Collector) CreateCollection() *collection.Collection {
	c.threadsMu.RLock()
	snapshot := make(map[int64]*recorder.Recorder, len(c.threads))

	for id, r := range c.threads {
		snapshot[id] = r
	}

	c.threadsMu.RUnlock()

	threads := make(map[collection.ThreadID]*eventlist.List, len(snapshot))

	for id, r := range snapshot {
		waitForQuiescence(r)

		if r.Len() == 0 {
			continue
		}

		dst := eventlist.New()
		dst.Splice(r.List())
		threads[collection.ThreadID(id)] = dst
	}

	seq := c.seq.Add(1)
	coll := collection.New(seq, threads)

	c.broadcast(coll)

	return coll
}

// waitForQuiescence busy-waits, with an acquire-semantics load each
// iteration, until r is not mid-Append. It yields the processor between
// spins so a single-core or GOMAXPROCS=1 run still makes progress:
// without Gosched, a tight spin could starve the writer goroutine from
// ever reaching its own release-store on the same P.
func waitForQuiescence(r *recorder.Recorder) {
	for i := 0; i < maxSwapOutSpins && r.Writing(); i++ {
		runtime.Gosched()
	}
}

func (c *Collector) broadcast(coll *collection.Collection) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()

	for _, s := range c.subs {
		s.OnCollection(coll)
	}
}

// ThreadCount returns the number of threads that have ever recorded
// anything through this collector, for diagnostics and tests.
func (c *Collector) ThreadCount() int {
	c.threadsMu.RLock()
	defer c.threadsMu.RUnlock()

	return len(c.threads)
}
