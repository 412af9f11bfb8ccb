package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

func TestConstructorsSetKind(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	k := table.Intern("scope")

	assert.Equal(t, event.Begin, event.NewBegin(k, 0, 1).Kind)
	assert.Equal(t, event.End, event.NewEnd(k, 0, 1).Kind)
	assert.Equal(t, event.Marker, event.NewMarker(k, 0, 1).Kind)

	ts := event.NewTimespan(k, 0, 1, 5)
	assert.Equal(t, event.Timespan, ts.Kind)
	assert.EqualValues(t, 1, ts.Time)
	assert.EqualValues(t, 5, ts.End)
	assert.True(t, ts.IsScope())
}

func TestCounterEventsCarryFloatPayload(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	k := table.Intern("mem")

	delta := event.NewCounterDelta(k, 0, 1, -2.5)
	assert.Equal(t, event.CounterDelta, delta.Kind)
	assert.Equal(t, event.DataFloat, delta.Payload.Type)
	assert.InDelta(t, -2.5, delta.Payload.F, 1e-9)

	value := event.NewCounterValue(k, 0, 1, 42)
	assert.Equal(t, event.CounterValue, value.Kind)
	assert.InDelta(t, 42.0, value.Payload.F, 1e-9)
}

func TestDataEventsCarryTypedPayload(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	k := table.Intern("attr")

	assert.Equal(t, event.DataBool, event.NewDataBool(k, 0, 1, true).Payload.Type)
	assert.Equal(t, event.DataInt, event.NewDataInt(k, 0, 1, -7).Payload.Type)
	assert.Equal(t, event.DataUint, event.NewDataUint(k, 0, 1, 7).Payload.Type)
	assert.Equal(t, event.DataString, event.NewDataString(k, 0, 1, "x").Payload.Type)

	str := event.NewDataString(k, 0, 1, "hello")
	assert.Equal(t, "hello", str.Payload.S)
}

func TestKindStringIsHumanReadable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Begin", event.Begin.String())
	assert.Equal(t, "CounterValue", event.CounterValue.String())
}
