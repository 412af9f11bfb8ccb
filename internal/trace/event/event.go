// Package event defines the tagged-union record appended to an event
// list on every trace call: scope begin/end, timespans, markers,
// counter samples, and free-form data attributes.
package event

import (
	"fmt"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// Kind discriminates the variant an Event holds.
type Kind uint8

const (
	Begin Kind = iota
	End
	Timespan
	Marker
	CounterDelta
	CounterValue
	Data
)

func (k Kind) String() string {
	switch k {
	case Begin:
		return "Begin"
	case End:
		return "End"
	case Timespan:
		return "Timespan"
	case Marker:
		return "Marker"
	case CounterDelta:
		return "CounterDelta"
	case CounterValue:
		return "CounterValue"
	case Data:
		return "Data"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// DataType discriminates the payload of a Data event.
type DataType uint8

const (
	DataNone DataType = iota
	DataBool
	DataInt
	DataUint
	DataFloat
	DataString
)

// Payload is the scalar value carried by CounterDelta, CounterValue,
// and Data events. Exactly one field is meaningful, selected by Type;
// it is a plain struct rather than an interface{} so appending an
// Event never allocates.
type Payload struct {
	Type DataType
	B    bool
	I    int64
	U    uint64
	F    float64
	S    string
}

// Event is one record in an event list. Its size is fixed so event
// lists can store Events by value in contiguous segments.
type Event struct {
	Kind Kind
	Key  keytable.Key
	Cat  uint32
	Time clock.Tick
	// End holds the closing time of a Timespan; zero for all other kinds.
	End     clock.Tick
	Payload Payload
}

// NewBegin returns a scope-open event.
func NewBegin(key keytable.Key, cat uint32, t clock.Tick) Event {
	return Event{Kind: Begin, Key: key, Cat: cat, Time: t}
}

// NewEnd returns a scope-close event.
func NewEnd(key keytable.Key, cat uint32, t clock.Tick) Event {
	return Event{Kind: End, Key: key, Cat: cat, Time: t}
}

// NewTimespan returns a single event describing a complete interval,
// used by scripting hosts that only know a scope's duration after it
// has already finished rather than observing its start live.
func NewTimespan(key keytable.Key, cat uint32, start, end clock.Tick) Event {
	return Event{Kind: Timespan, Key: key, Cat: cat, Time: start, End: end}
}

// NewMarker returns an instantaneous, non-nesting event.
func NewMarker(key keytable.Key, cat uint32, t clock.Tick) Event {
	return Event{Kind: Marker, Key: key, Cat: cat, Time: t}
}

// NewCounterDelta returns an event that adjusts a named counter by delta.
func NewCounterDelta(key keytable.Key, cat uint32, t clock.Tick, delta float64) Event {
	return Event{Kind: CounterDelta, Key: key, Cat: cat, Time: t, Payload: Payload{Type: DataFloat, F: delta}}
}

// NewCounterValue returns an event that sets a named counter to value.
func NewCounterValue(key keytable.Key, cat uint32, t clock.Tick, value float64) Event {
	return Event{Kind: CounterValue, Key: key, Cat: cat, Time: t, Payload: Payload{Type: DataFloat, F: value}}
}

// NewDataBool returns a boolean data-attribute event.
func NewDataBool(key keytable.Key, cat uint32, t clock.Tick, v bool) Event {
	return Event{Kind: Data, Key: key, Cat: cat, Time: t, Payload: Payload{Type: DataBool, B: v}}
}

// NewDataInt returns a signed-integer data-attribute event.
func NewDataInt(key keytable.Key, cat uint32, t clock.Tick, v int64) Event {
	return Event{Kind: Data, Key: key, Cat: cat, Time: t, Payload: Payload{Type: DataInt, I: v}}
}

// NewDataUint returns an unsigned-integer data-attribute event.
func NewDataUint(key keytable.Key, cat uint32, t clock.Tick, v uint64) Event {
	return Event{Kind: Data, Key: key, Cat: cat, Time: t, Payload: Payload{Type: DataUint, U: v}}
}

// NewDataFloat returns a floating-point data-attribute event.
func NewDataFloat(key keytable.Key, cat uint32, t clock.Tick, v float64) Event {
	return Event{Kind: Data, Key: key, Cat: cat, Time: t, Payload: Payload{Type: DataFloat, F: v}}
}

// NewDataString returns a string data-attribute event.
func NewDataString(key keytable.Key, cat uint32, t clock.Tick, v string) Event {
	return Event{Kind: Data, Key: key, Cat: cat, Time: t, Payload: Payload{Type: DataString, S: v}}
}

// IsScope reports whether the event marks the start or end of a scope.
func (e Event) IsScope() bool {
	return e.Kind == Begin || e.Kind == End || e.Kind == Timespan
}
