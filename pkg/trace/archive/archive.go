// Package archive serializes a Collection to a compact, versioned,
// schema-validated file format: JSON for portability and human
// inspectability, lz4 to keep large captures small on disk, and a
// gojsonschema check on decode so a malformed archive is rejected
// before any tree builder sees it.
package archive

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/xeipuuv/gojsonschema"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// FormatVersion is the wire-format version this package writes and
// the highest version it can read.
const FormatVersion = 1

type wireEvent struct {
	Kind          string  `json:"kind"`
	Key           string  `json:"key"`
	Cat           uint32  `json:"cat"`
	Time          int64   `json:"time"`
	End           int64   `json:"end,omitempty"`
	PayloadType   string  `json:"payloadType,omitempty"`
	PayloadBool   bool    `json:"payloadBool,omitempty"`
	PayloadInt    int64   `json:"payloadInt,omitempty"`
	PayloadUint   uint64  `json:"payloadUint,omitempty"`
	PayloadFloat  float64 `json:"payloadFloat,omitempty"`
	PayloadString string  `json:"payloadString,omitempty"`
}

type wireDocument struct {
	Version int                    `json:"version"`
	Seq     uint64                 `json:"seq"`
	Threads map[string][]wireEvent `json:"threads"`
}

var kindNames = map[event.Kind]string{
	event.Begin:        "begin",
	event.End:          "end",
	event.Timespan:     "timespan",
	event.Marker:       "marker",
	event.CounterDelta: "counterDelta",
	event.CounterValue: "counterValue",
	event.Data:         "data",
}

var kindFromName = func() map[string]event.Kind {
	m := make(map[string]event.Kind, len(kindNames))
	for k, v := range kindNames {
		m[v] = k
	}

	return m
}()

var dataTypeNames = map[event.DataType]string{
	event.DataBool:   "bool",
	event.DataInt:    "int",
	event.DataUint:   "uint",
	event.DataFloat:  "float",
	event.DataString: "string",
}

var dataTypeFromName = func() map[string]event.DataType {
	m := make(map[string]event.DataType, len(dataTypeNames))
	for k, v := range dataTypeNames {
		m[v] = k
	}

	return m
}()

// Write serializes c to w, compressed with lz4. names resolves keys
// to the strings written to the archive so it reads back key-table
// independent: Read interns names into whatever table the caller supplies.
func Write(w io.Writer, c *collection.Collection, names *keytable.Table) error {
	doc := wireDocument{Version: FormatVersion, Seq: c.Seq(), Threads: make(map[string][]wireEvent)}

	for id := range c.Threads() {
		list := c.Events(id)
		if list == nil {
			continue
		}

		events := make([]wireEvent, 0, list.Len())
		for e := range list.All() {
			events = append(events, toWire(e, names))
		}

		doc.Threads[fmt.Sprint(int64(id))] = events
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("archive: marshal: %w", err)
	}

	if err := validate(raw); err != nil {
		return err
	}

	zw := lz4.NewWriter(w)
	defer zw.Close()

	if _, err := zw.Write(raw); err != nil {
		return fmt.Errorf("archive: compress: %w", err)
	}

	return nil
}

// Read decompresses and validates an archive written by Write, then
// decodes it into a Collection, interning event names into table.
func Read(r io.Reader, table *keytable.Table) (*collection.Collection, error) {
	zr := lz4.NewReader(r)

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("archive: decompress: %w", err)
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var doc wireDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("archive: unmarshal: %w", err)
	}

	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("archive: unsupported format version %d (this binary reads up to %d)", doc.Version, FormatVersion)
	}

	threads := make(map[collection.ThreadID]*eventlist.List, len(doc.Threads))

	for idStr, wireEvents := range doc.Threads {
		var id int64
		if _, err := fmt.Sscan(idStr, &id); err != nil {
			return nil, fmt.Errorf("archive: bad thread id %q: %w", idStr, err)
		}

		list := eventlist.New()
		for _, we := range wireEvents {
			ev, err := fromWire(we, table)
			if err != nil {
				return nil, err
			}

			list.Append(ev)
		}

		threads[collection.ThreadID(id)] = list
	}

	return collection.New(doc.Seq, threads), nil
}

func validate(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("archive: schema validation error: %w", err)
	}

	if !result.Valid() {
		return fmt.Errorf("archive: invalid document: %v", result.Errors())
	}

	return nil
}

func toWire(e event.Event, names *keytable.Table) wireEvent {
	we := wireEvent{
		Kind: kindNames[e.Kind],
		Key:  names.Name(e.Key),
		Cat:  e.Cat,
		Time: int64(e.Time),
		End:  int64(e.End),
	}

	if e.Payload.Type != event.DataNone {
		we.PayloadType = dataTypeNames[e.Payload.Type]
		we.PayloadBool = e.Payload.B
		we.PayloadInt = e.Payload.I
		we.PayloadUint = e.Payload.U
		we.PayloadFloat = e.Payload.F
		we.PayloadString = e.Payload.S
	}

	return we
}

func fromWire(we wireEvent, table *keytable.Table) (event.Event, error) {
	kind, ok := kindFromName[we.Kind]
	if !ok {
		return event.Event{}, fmt.Errorf("archive: unknown event kind %q", we.Kind)
	}

	key := table.Intern(we.Key)

	ev := event.Event{
		Kind: kind,
		Key:  key,
		Cat:  we.Cat,
		Time: clock.Tick(we.Time),
		End:  clock.Tick(we.End),
	}

	if we.PayloadType != "" {
		dt, ok := dataTypeFromName[we.PayloadType]
		if !ok {
			return event.Event{}, fmt.Errorf("archive: unknown payload type %q", we.PayloadType)
		}

		ev.Payload = event.Payload{
			Type: dt,
			B:    we.PayloadBool,
			I:    we.PayloadInt,
			U:    we.PayloadUint,
			F:    we.PayloadFloat,
			S:    we.PayloadString,
		}
	}

	return ev, nil
}
