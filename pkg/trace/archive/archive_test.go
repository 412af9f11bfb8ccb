package archive_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
	"github.com/tracecore/tracecore/pkg/trace/archive"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	outer := table.Intern("outer")
	inner := table.Intern("inner")

	list := eventlist.New()
	list.Append(event.NewBegin(outer, 1, 0))
	list.Append(event.NewBegin(inner, 2, 10))
	list.Append(event.NewCounterValue(inner, 2, 15, 42))
	list.Append(event.NewEnd(inner, 2, 40))
	list.Append(event.NewEnd(outer, 1, 100))

	c := collection.New(7, map[collection.ThreadID]*eventlist.List{5: list})

	var buf bytes.Buffer
	require.NoError(t, archive.Write(&buf, c, table))

	table2 := keytable.New()
	got, err := archive.Read(&buf, table2)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), got.Seq())
	require.Equal(t, 1, got.Len())

	gotList := got.Events(5)
	require.NotNil(t, gotList)
	assert.Equal(t, 5, gotList.Len())

	var names []string
	for e := range gotList.All() {
		names = append(names, table2.Name(e.Key))
	}

	assert.Equal(t, []string{"outer", "inner", "inner", "inner", "outer"}, names)
}

func TestReadRejectsCorruptedData(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	_, err := archive.Read(bytes.NewReader([]byte("not an lz4 stream")), table)
	assert.Error(t, err)
}
