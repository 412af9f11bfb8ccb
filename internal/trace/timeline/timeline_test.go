package timeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
	"github.com/tracecore/tracecore/internal/trace/timeline"
)

func TestBuildKeepsEachRecursiveInvocationSeparate(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	fib := table.Intern("fib")

	list := eventlist.New()
	list.Append(event.NewBegin(fib, 0, 0))
	list.Append(event.NewBegin(fib, 0, 10))
	list.Append(event.NewEnd(fib, 0, 80))
	list.Append(event.NewEnd(fib, 0, 100))

	tl := timeline.Build(list.All())

	require.Len(t, tl.Roots, 1)
	outer := tl.Roots[0]
	assert.EqualValues(t, 0, outer.Start)
	assert.EqualValues(t, 100, outer.End)

	require.Len(t, outer.Children, 1)
	inner := outer.Children[0]
	assert.EqualValues(t, 10, inner.Start)
	assert.EqualValues(t, 80, inner.End)
}

func TestBuildTracksCounterHistory(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	mem := table.Intern("mem")

	list := eventlist.New()
	list.Append(event.NewCounterValue(mem, 0, 0, 10))
	list.Append(event.NewCounterDelta(mem, 0, 5, 5))
	list.Append(event.NewCounterDelta(mem, 0, 10, -3))

	tl := timeline.Build(list.All())

	require.Len(t, tl.Counters[mem], 3)
	assert.InDelta(t, 10.0, tl.Counters[mem][0].Value, 1e-9)
	assert.InDelta(t, 15.0, tl.Counters[mem][1].Value, 1e-9)
	assert.InDelta(t, 12.0, tl.Counters[mem][2].Value, 1e-9)
}

// TestCounterValueResetsThenAccumulatesDeltas is scenario S3: a
// CounterValue resets the running total rather than adding to it, and
// subsequent CounterDelta events accumulate from there. The timeline
// series must reproduce the reset exactly, left to right.
func TestCounterValueResetsThenAccumulatesDeltas(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	c := table.Intern("C")

	list := eventlist.New()
	list.Append(event.NewCounterValue(c, 0, 0, 5))
	list.Append(event.NewCounterDelta(c, 0, 1, -1))
	list.Append(event.NewCounterDelta(c, 0, 2, -2))

	tl := timeline.Build(list.All())

	require.Len(t, tl.Counters[c], 3)
	assert.InDelta(t, 5.0, tl.Counters[c][0].Value, 1e-9)
	assert.InDelta(t, 4.0, tl.Counters[c][1].Value, 1e-9)
	assert.InDelta(t, 2.0, tl.Counters[c][2].Value, 1e-9)

	final := tl.Counters[c][len(tl.Counters[c])-1].Value
	assert.InDelta(t, 2.0, final, 1e-9)
}

func TestBuildTracksMarkersAndData(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	tick := table.Intern("tick")
	attr := table.Intern("attr")

	list := eventlist.New()
	list.Append(event.NewMarker(tick, 0, 1))
	list.Append(event.NewMarker(tick, 0, 2))
	list.Append(event.NewDataString(attr, 0, 3, "hello"))

	tl := timeline.Build(list.All())

	require.Len(t, tl.Markers[tick], 2)
	assert.EqualValues(t, 1, tl.Markers[tick][0])
	assert.EqualValues(t, 2, tl.Markers[tick][1])
	require.Len(t, tl.Data[attr], 1)
	assert.Equal(t, "hello", tl.Data[attr][0].Payload.S)
}

func TestMergeConcatenatesAndSorts(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	a := table.Intern("a")

	l1 := eventlist.New()
	l1.Append(event.NewBegin(a, 0, 10))
	l1.Append(event.NewEnd(a, 0, 20))

	l2 := eventlist.New()
	l2.Append(event.NewBegin(a, 0, 0))
	l2.Append(event.NewEnd(a, 0, 5))

	tl1 := timeline.Build(l1.All())
	tl2 := timeline.Build(l2.All())

	merged := timeline.Merge(tl1, tl2)

	require.Len(t, merged.Roots, 2)
	assert.EqualValues(t, 0, merged.Roots[0].Start)
	assert.EqualValues(t, 10, merged.Roots[1].Start)
}

func TestBuildIndexQueryPointAndRange(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	a := table.Intern("a")
	b := table.Intern("b")

	list := eventlist.New()
	list.Append(event.NewBegin(a, 0, 0))
	list.Append(event.NewEnd(a, 0, 50))
	list.Append(event.NewBegin(b, 0, 60))
	list.Append(event.NewEnd(b, 0, 100))

	tl := timeline.Build(list.All())
	idx := timeline.BuildIndex(tl)

	assert.Equal(t, 2, idx.Len())
	assert.Len(t, idx.QueryPoint(25), 1)
	assert.Len(t, idx.QueryRange(40, 70), 2)
	assert.Empty(t, idx.QueryPoint(55))
}
