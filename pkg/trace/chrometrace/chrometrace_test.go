package chrometrace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
	"github.com/tracecore/tracecore/pkg/trace/chrometrace"
)

func TestEncodeMergesBeginEndIntoCompleteEvent(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	k := table.Intern("scope")

	list := eventlist.New()
	list.Append(event.NewBegin(k, 0, 0))
	list.Append(event.NewEnd(k, 0, 1000))

	c := collection.New(1, map[collection.ThreadID]*eventlist.List{1: list})

	doc := chrometrace.Encode(c, table, nil)

	require.Len(t, doc.TraceEvents, 1)
	assert.Equal(t, "X", doc.TraceEvents[0].Ph)
	assert.Equal(t, "scope", doc.TraceEvents[0].Name)
	assert.InDelta(t, 1, doc.TraceEvents[0].Dur, 1e-6) // 1000-tick span -> 1us
}

func TestEncodeAttachesDataToEnclosingScope(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	scope := table.Intern("scope")
	attr := table.Intern("attr")

	list := eventlist.New()
	list.Append(event.NewBegin(scope, 0, 0))
	list.Append(event.NewDataInt(attr, 0, 5, 42))
	list.Append(event.NewEnd(scope, 0, 1000))

	c := collection.New(1, map[collection.ThreadID]*eventlist.List{1: list})

	doc := chrometrace.Encode(c, table, nil)

	require.Len(t, doc.TraceEvents, 1)
	assert.Equal(t, "X", doc.TraceEvents[0].Ph)

	args, ok := doc.TraceEvents[0].Args.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 42, args["attr"])
}

func TestMarshalProducesValidJSON(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	k := table.Intern("scope")

	list := eventlist.New()
	list.Append(event.NewMarker(k, 0, 0))

	c := collection.New(1, map[collection.ThreadID]*eventlist.List{1: list})
	doc := chrometrace.Encode(c, table, nil)

	b, err := chrometrace.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), "\"ph\": \"R\"")
}
