// Package recorder implements the per-thread recording surface that
// Scope, Counter, and the scripting-host bridge write into. Each
// goroutine that traces anything gets exactly one Recorder, which the
// collector looks up by goroutine id under a read lock of its thread
// registry on every call.
package recorder

import (
	"sync/atomic"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// Recorder owns one goroutine's event list. Its recording methods
// (Begin, End, Marker and the rest) must only be called by that
// goroutine; List and Len may be called from any goroutine
// once the owning goroutine has stopped writing (e.g. after a handoff).
type Recorder struct {
	// writing guards concurrent Append against a concurrent Splice by
	// the collector's periodic handoff: Append sets it before touching
	// the list and clears it after, with acquire/release ordering, so
	// the handoff can spin-wait for a clean point instead of blocking
	// the traced thread with a mutex on every single event.
	writing atomic.Bool

	list *eventlist.List

	// scriptStack tracks nested scripting-host scopes (e.g. a Python
	// call stack bridged into the same timeline) as a stack of open
	// begin events, since a scripting host reports push/pop rather
	// than bracketing calls the way native Scope does.
	scriptStack []scriptFrame
}

type scriptFrame struct {
	key keytable.Key
	cat uint32
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{list: eventlist.New()}
}

// acquire marks the start of a write. It is named to mirror the C6
// collector's own acquire/release enable-flag discipline: a handoff
// reading writing==false after this point is guaranteed to see none
// of the event this call is about to append.
func (r *Recorder) acquire() {
	r.writing.Store(true)
}

func (r *Recorder) release() {
	r.writing.Store(false)
}

// Writing reports whether the owning goroutine is mid-Append. The
// collector's handoff polls this before splicing a Recorder's list to
// avoid tearing an in-flight append.
func (r *Recorder) Writing() bool {
	return r.writing.Load()
}

func (r *Recorder) append(e event.Event) {
	r.acquire()
	r.list.Append(e)
	r.release()
}

// Begin records a scope-open event at the current time.
func (r *Recorder) Begin(key keytable.Key, cat uint32) {
	r.append(event.NewBegin(key, cat, clock.Now()))
}

// End records a scope-close event at the current time.
func (r *Recorder) End(key keytable.Key, cat uint32) {
	r.append(event.NewEnd(key, cat, clock.Now()))
}

// Timespan records a complete interval in one call.
func (r *Recorder) Timespan(key keytable.Key, cat uint32, start, end clock.Tick) {
	r.append(event.NewTimespan(key, cat, start, end))
}

// Marker records an instantaneous event.
func (r *Recorder) Marker(key keytable.Key, cat uint32) {
	r.append(event.NewMarker(key, cat, clock.Now()))
}

// CounterDelta records a relative counter adjustment.
func (r *Recorder) CounterDelta(key keytable.Key, cat uint32, delta float64) {
	r.append(event.NewCounterDelta(key, cat, clock.Now(), delta))
}

// CounterValue records an absolute counter sample.
func (r *Recorder) CounterValue(key keytable.Key, cat uint32, value float64) {
	r.append(event.NewCounterValue(key, cat, clock.Now(), value))
}

// DataBool, DataInt, DataUint, DataFloat, DataString record a
// key/value attribute attached to the innermost open scope.
func (r *Recorder) DataBool(key keytable.Key, cat uint32, v bool) {
	r.append(event.NewDataBool(key, cat, clock.Now(), v))
}

func (r *Recorder) DataInt(key keytable.Key, cat uint32, v int64) {
	r.append(event.NewDataInt(key, cat, clock.Now(), v))
}

func (r *Recorder) DataUint(key keytable.Key, cat uint32, v uint64) {
	r.append(event.NewDataUint(key, cat, clock.Now(), v))
}

func (r *Recorder) DataFloat(key keytable.Key, cat uint32, v float64) {
	r.append(event.NewDataFloat(key, cat, clock.Now(), v))
}

func (r *Recorder) DataString(key keytable.Key, cat uint32, v string) {
	r.append(event.NewDataString(key, cat, clock.Now(), v))
}

// PushScriptScope records a Begin on behalf of a scripting host and
// remembers it so a matching Pop can close it without the host having
// to pass the key back, matching how such hosts track call stacks by
// frame rather than by scope handle.
func (r *Recorder) PushScriptScope(key keytable.Key, cat uint32) {
	r.Begin(key, cat)
	r.scriptStack = append(r.scriptStack, scriptFrame{key: key, cat: cat})
}

// PopScriptScope closes the most recently pushed scripting-host scope.
// It is a no-op if no scope is open, which can happen if tracing was
// enabled after the host's call stack had already started growing.
func (r *Recorder) PopScriptScope() {
	n := len(r.scriptStack)
	if n == 0 {
		return
	}

	frame := r.scriptStack[n-1]
	r.scriptStack = r.scriptStack[:n-1]
	r.End(frame.key, frame.cat)
}

// List returns the underlying event list for reading by the collector's
// handoff or a direct visitor. Safe to call once the owning goroutine
// is known not to be concurrently writing.
func (r *Recorder) List() *eventlist.List {
	return r.list
}

// Len reports the number of events recorded so far.
func (r *Recorder) Len() int {
	return r.list.Len()
}
