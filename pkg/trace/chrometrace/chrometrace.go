// Package chrometrace encodes a Collection as Chrome's trace-event
// JSON format (the "Trace Event Format" consumed by chrome://tracing
// and Perfetto), so a capture can be inspected with tools outside this
// module without any bespoke viewer.
package chrometrace

import (
	"encoding/json"
	"fmt"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// Event is one line of the Chrome trace-event JSON array format.
type Event struct {
	Name string  `json:"name"`
	Cat  string  `json:"cat,omitempty"`
	Ph   string  `json:"ph"`
	TS   float64 `json:"ts"`
	Dur  float64 `json:"dur,omitempty"`
	PID  int     `json:"pid"`
	TID  int64   `json:"tid"`
	Args any     `json:"args,omitempty"`
}

// Document is the top-level "JSON Object Format" envelope.
type Document struct {
	TraceEvents []Event `json:"traceEvents"`
}

// Encode renders every thread in c as Chrome trace events. names
// resolves event keys to display names; catNames resolves category
// ids to display names (may be nil to omit the "cat" field).
func Encode(c *collection.Collection, names *keytable.Table, catNames func(uint32) string) Document {
	var doc Document

	for id := range c.Threads() {
		list := c.Events(id)
		if list == nil {
			continue
		}

		doc.TraceEvents = append(doc.TraceEvents, encodeThread(id, list, names, catNames)...)
	}

	return doc
}

// openScope tracks a Begin not yet matched by its End, so the pair can
// be merged into one "X" complete event (with a computed Dur) the way
// Chrome's trace viewer expects scopes to be represented, rather than
// as two separate "B"/"E" events. Any Data events recorded while this
// scope is the innermost open one are attached to its Args instead of
// becoming their own instant events.
type openScope struct {
	name  string
	cat   string
	start clock.Tick
	args  map[string]any
}

func encodeThread(id collection.ThreadID, list *eventlist.List, names *keytable.Table, catNames func(uint32) string) []Event {
	var out []Event

	var stack []*openScope

	catName := func(cat uint32) string {
		if catNames == nil {
			return ""
		}

		return catNames(cat)
	}

	for e := range list.All() {
		name := names.Name(e.Key)

		switch e.Kind {
		case event.Begin:
			stack = append(stack, &openScope{name: name, cat: catName(e.Cat), start: e.Time})

		case event.End:
			n := len(stack)
			if n == 0 {
				// Unmatched End (e.g. a collection taken mid-scope with
				// no corresponding Begin in this list); nothing to pair
				// it with, so it is dropped rather than misrepresented
				// as a zero-duration event.
				continue
			}

			top := stack[n-1]
			stack = stack[:n-1]

			ev := Event{
				Name: top.name,
				Cat:  top.cat,
				Ph:   "X",
				PID:  1,
				TID:  int64(id),
				TS:   clock.TicksToMillis(top.start) * 1000, // Chrome format wants microseconds
				Dur:  clock.TicksToMillis(e.Time-top.start) * 1000,
			}

			if len(top.args) > 0 {
				ev.Args = top.args
			}

			out = append(out, ev)

		case event.Timespan:
			out = append(out, Event{
				Name: name, Cat: catName(e.Cat), Ph: "X", PID: 1, TID: int64(id),
				TS:  clock.TicksToMillis(e.Time) * 1000,
				Dur: clock.TicksToMillis(e.End-e.Time) * 1000,
			})

		case event.Marker:
			out = append(out, Event{
				Name: name, Cat: catName(e.Cat), Ph: "R", PID: 1, TID: int64(id),
				TS: clock.TicksToMillis(e.Time) * 1000,
			})

		case event.CounterDelta, event.CounterValue:
			out = append(out, Event{
				Name: name, Cat: catName(e.Cat), Ph: "C", PID: 1, TID: int64(id),
				TS:   clock.TicksToMillis(e.Time) * 1000,
				Args: map[string]float64{name: e.Payload.F},
			})

		case event.Data:
			if n := len(stack); n > 0 {
				top := stack[n-1]
				if top.args == nil {
					top.args = make(map[string]any)
				}

				top.args[name] = payloadValue(e.Payload)

				continue
			}

			// No enclosing scope to attach to; surface it as its own
			// instant event rather than silently dropping the attribute.
			out = append(out, Event{
				Name: name, Cat: catName(e.Cat), Ph: "R", PID: 1, TID: int64(id),
				TS:   clock.TicksToMillis(e.Time) * 1000,
				Args: map[string]any{name: payloadValue(e.Payload)},
			})
		}
	}

	return out
}

func payloadValue(p event.Payload) any {
	switch p.Type {
	case event.DataBool:
		return p.B
	case event.DataInt:
		return p.I
	case event.DataUint:
		return p.U
	case event.DataFloat:
		return p.F
	case event.DataString:
		return p.S
	default:
		return nil
	}
}

// Marshal encodes doc as indented JSON.
func Marshal(doc Document) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("chrometrace: marshal: %w", err)
	}

	return b, nil
}
