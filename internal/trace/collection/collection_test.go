package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

func TestCollectionThreadsAndEvents(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	k := table.Intern("scope")

	threads := map[collection.ThreadID]*eventlist.List{
		1: buildListSimple(k, 3),
		2: buildListSimple(k, 1),
	}

	c := collection.New(42, threads)

	require.Equal(t, uint64(42), c.Seq())
	assert.Equal(t, 2, c.Len())

	var ids []collection.ThreadID
	for id := range c.Threads() {
		ids = append(ids, id)
	}

	assert.ElementsMatch(t, []collection.ThreadID{1, 2}, ids)
	assert.Equal(t, 3, c.Events(1).Len())
	assert.Nil(t, c.Events(99))
}

func buildListSimple(k keytable.Key, n int) *eventlist.List {
	l := eventlist.New()
	for range n {
		l.Append(event.NewMarker(k, 0, 0))
	}

	return l
}

func TestMergeCombinesSameThreadWithoutMutatingInputs(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	k := table.Intern("scope")

	c1 := collection.New(1, map[collection.ThreadID]*eventlist.List{
		1: buildListSimple(k, 2),
	})
	c2 := collection.New(2, map[collection.ThreadID]*eventlist.List{
		1: buildListSimple(k, 3),
	})

	merged := collection.Merge(c1, c2)

	assert.Equal(t, uint64(2), merged.Seq())
	assert.Equal(t, 5, merged.Events(1).Len())

	// Inputs must remain untouched.
	assert.Equal(t, 2, c1.Events(1).Len())
	assert.Equal(t, 3, c2.Events(1).Len())
}

// categoryVisitor records the name of every event it is shown; it
// accepts only the category it was constructed with.
type categoryVisitor struct {
	want  uint32
	seen  []string
	begun bool
	ended bool
}

func (v *categoryVisitor) OnBeginCollection(*collection.Collection) { v.begun = true }
func (v *categoryVisitor) OnEndCollection(*collection.Collection)   { v.ended = true }
func (v *categoryVisitor) OnBeginThread(collection.ThreadID)        {}
func (v *categoryVisitor) OnEndThread(collection.ThreadID)          {}

func (v *categoryVisitor) OnEvent(_ collection.ThreadID, name string, _ event.Event) {
	v.seen = append(v.seen, name)
}

func (v *categoryVisitor) AcceptsCategory(cat uint32) bool {
	return cat == v.want
}

func TestVisitFiltersByCategory(t *testing.T) {
	t.Parallel()

	const (
		catX       = 7
		catDefault = 0
	)

	table := keytable.New()
	inX := table.Intern("in-x")
	inDefault := table.Intern("in-default")

	list := eventlist.New()
	list.Append(event.NewMarker(inX, catX, 0))
	list.Append(event.NewMarker(inDefault, catDefault, 0))

	c := collection.New(1, map[collection.ThreadID]*eventlist.List{1: list})

	v := &categoryVisitor{want: catX}
	c.Visit(v, table)

	assert.True(t, v.begun)
	assert.True(t, v.ended)
	assert.Equal(t, []string{"in-x"}, v.seen)
}
