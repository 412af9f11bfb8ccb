// Package trace is the public tracing API: Scope and Counter helpers
// for instrumenting code, categories for filtering, and Subscribe for
// consuming collections as they're handed off. Everything here is a
// thin wrapper around the process-wide collector in internal/trace;
// the internal packages hold the actual algorithms so they can be
// tested in isolation.
package trace

import (
	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/collector"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// Cat identifies a trace category for selective enabling and for
// grouping scopes in a report.
type Cat = collector.Cat

// Collection is an immutable, per-handoff bundle of thread event lists.
type Collection = collection.Collection

// NewCategory derives a stable category id from a name and registers
// the name for display in reports.
func NewCategory(name string) Cat {
	cat := collector.NewCategory(name)
	collector.Global().RegisterCategory(cat, name)

	return cat
}

// Enable turns on recording process-wide.
func Enable() {
	collector.Global().Enable()
}

// Disable turns off recording process-wide.
func Disable() {
	collector.Global().Disable()
}

// IsEnabled reports whether recording is currently on.
func IsEnabled() bool {
	return collector.Global().IsEnabled()
}

// Key is an interned event name, the payload every recording call
// ultimately needs; StaticKey is the zero-overhead way to obtain one
// at a fixed call site.
type Key = keytable.Key

// StaticKey caches a call site's Key after first use so a hot Scope
// only pays string-interning cost once per process.
type StaticKey = keytable.StaticKey

// NewStaticKey declares a call-site key bound to the process-wide key table.
func NewStaticKey(name string) *StaticKey {
	return keytable.NewStaticKey(name)
}

// Scope records a Begin event on construction via NewScope and an End
// event when Close is called, typically via defer. It is not safe to
// share a Scope across goroutines: each goroutine that wants to trace
// a scope must create its own.
type Scope struct {
	key keytable.Key
	cat Cat
}

// NewScope opens a scope on the calling goroutine's recorder. If
// tracing is disabled this still constructs a Scope (so callers can
// defer Close unconditionally) but records nothing.
func NewScope(key *StaticKey, cat Cat) Scope {
	if !IsEnabled() {
		return Scope{}
	}

	k := key.Key()
	collector.Global().Recorder().Begin(k, uint32(cat))

	return Scope{key: k, cat: cat}
}

// Close records the matching End event. A zero-value Scope (from a
// call to NewScope while tracing was disabled) is a no-op.
func (s Scope) Close() {
	if !s.key.Valid() {
		return
	}

	collector.Global().Recorder().End(s.key, uint32(s.cat))
}

// Timespan records a complete interval in one call, for callers that
// only learn a scope's duration after it has already finished (e.g. a
// scripting host reporting a call that already returned).
func Timespan(key *StaticKey, cat Cat, start, end clock.Tick) {
	if !IsEnabled() {
		return
	}

	collector.Global().Recorder().Timespan(key.Key(), uint32(cat), start, end)
}

// Marker records an instantaneous, non-nesting event.
func Marker(key *StaticKey, cat Cat) {
	if !IsEnabled() {
		return
	}

	collector.Global().Recorder().Marker(key.Key(), uint32(cat))
}

// Counter tracks a named numeric value over time via Delta/Set.
type Counter struct {
	key *StaticKey
	cat Cat
}

// NewCounter declares a named counter.
func NewCounter(name string, cat Cat) Counter {
	return Counter{key: NewStaticKey(name), cat: cat}
}

// Delta records a relative adjustment to the counter's value.
func (c Counter) Delta(amount float64) {
	if !IsEnabled() {
		return
	}

	collector.Global().Recorder().CounterDelta(c.key.Key(), uint32(c.cat), amount)
}

// Set records an absolute value for the counter.
func (c Counter) Set(value float64) {
	if !IsEnabled() {
		return
	}

	collector.Global().Recorder().CounterValue(c.key.Key(), uint32(c.cat), value)
}

// DataBool, DataInt, DataUint, DataFloat, and DataString attach a
// key/value attribute to the innermost currently open scope on the
// calling goroutine.
func DataBool(key *StaticKey, cat Cat, v bool) {
	if IsEnabled() {
		collector.Global().Recorder().DataBool(key.Key(), uint32(cat), v)
	}
}

func DataInt(key *StaticKey, cat Cat, v int64) {
	if IsEnabled() {
		collector.Global().Recorder().DataInt(key.Key(), uint32(cat), v)
	}
}

func DataUint(key *StaticKey, cat Cat, v uint64) {
	if IsEnabled() {
		collector.Global().Recorder().DataUint(key.Key(), uint32(cat), v)
	}
}

func DataFloat(key *StaticKey, cat Cat, v float64) {
	if IsEnabled() {
		collector.Global().Recorder().DataFloat(key.Key(), uint32(cat), v)
	}
}

func DataString(key *StaticKey, cat Cat, v string) {
	if IsEnabled() {
		collector.Global().Recorder().DataString(key.Key(), uint32(cat), v)
	}
}

// Visitor receives every Collection produced by a handoff.
type Visitor = collector.Subscriber

// VisitorFunc adapts a function to a Visitor.
type VisitorFunc = collector.SubscriberFunc

// Subscribe registers v to receive every future Collection. The
// returned func unregisters it.
func Subscribe(v Visitor) (unsubscribe func()) {
	return collector.Global().Subscribe(v)
}

// CreateCollection performs a handoff now, bundling every thread's
// accumulated events into a Collection, broadcasting it to subscribers,
// and returning it.
func CreateCollection() *Collection {
	return collector.Global().CreateCollection()
}

// Calibrate measures the recording overhead of an empty scope and the
// platform's timer resolution. Call it once at startup, after Enable,
// so aggregate reports can correct for tracing's own cost.
func Calibrate() {
	key := NewStaticKey("tracecore.calibration")
	cat := NewCategory("tracecore.internal")

	clock.Calibrate(func() {
		s := NewScope(key, cat)
		s.Close()
	})
}
