package collector_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/collector"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

func TestNewCategoryIsStable(t *testing.T) {
	t.Parallel()

	a := collector.NewCategory("render")
	b := collector.NewCategory("render")
	c := collector.NewCategory("physics")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEnableDisable(t *testing.T) {
	t.Parallel()

	col := collector.New()
	assert.False(t, col.IsEnabled())

	col.Enable()
	assert.True(t, col.IsEnabled())

	col.Disable()
	assert.False(t, col.IsEnabled())
}

func TestRecorderIsStablePerGoroutine(t *testing.T) {
	t.Parallel()

	col := collector.New()

	r1 := col.Recorder()
	r2 := col.Recorder()

	assert.Same(t, r1, r2)
}

func TestCreateCollectionSplicesAndResets(t *testing.T) {
	t.Parallel()

	col := collector.New()
	table := keytable.New()
	k := table.Intern("scope")

	r := col.Recorder()
	r.Begin(k, 0)
	r.End(k, 0)

	require.Equal(t, 2, r.Len())

	coll := col.CreateCollection()
	require.Equal(t, uint64(1), coll.Seq())
	assert.Equal(t, 1, coll.Len())
	assert.Equal(t, 0, r.Len(), "handoff should empty the recorder's list")

	empty := col.CreateCollection()
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, uint64(2), empty.Seq())
}

func TestSubscribeReceivesBroadcastAndUnsubscribeStopsIt(t *testing.T) {
	t.Parallel()

	col := collector.New()
	table := keytable.New()
	k := table.Intern("scope")

	var mu sync.Mutex

	var seen []uint64

	unsub := col.Subscribe(collector.SubscriberFunc(func(c *collection.Collection) {
		mu.Lock()
		defer mu.Unlock()

		seen = append(seen, c.Seq())
	}))

	r := col.Recorder()
	r.Begin(k, 0)
	col.CreateCollection()

	unsub()

	r.Begin(k, 0)
	col.CreateCollection()

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []uint64{1}, seen)
}

// TestConcurrentRecordingDuringCreateCollection is scenario S6: thread
// W spins emitting Begin/End pairs while thread M repeatedly calls
// CreateCollection. No event emitted by W may be lost or duplicated:
// at any point after W stops, the sum of every published collection's
// event count plus whatever remains in the live recorder must equal
// the total W actually emitted.
func TestConcurrentRecordingDuringCreateCollection(t *testing.T) {
	col := collector.New()
	table := keytable.New()
	k := table.Intern("scope")

	const pairsPerIter = 50

	const iterations = 200

	r := col.Recorder()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for range iterations {
			for range pairsPerIter {
				r.Begin(k, 0)
				r.End(k, 0)
			}
		}
	}()

	var (
		publishedMu sync.Mutex
		published   int
	)

	sumEvents := func(c *collection.Collection) int {
		total := 0
		for id := range c.Threads() {
			total += c.Events(id).Len()
		}

		return total
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		for range iterations {
			c := col.CreateCollection()

			publishedMu.Lock()
			published += sumEvents(c)
			publishedMu.Unlock()
		}
	}()

	wg.Wait()

	published += sumEvents(col.CreateCollection())
	published += r.Len()

	assert.Equal(t, iterations*pairsPerIter*2, published)
}

func TestCategoryNameRoundTrips(t *testing.T) {
	t.Parallel()

	col := collector.New()
	cat := collector.NewCategory("render")

	col.RegisterCategory(cat, "render")
	assert.Equal(t, "render", col.CategoryName(cat))
	assert.Empty(t, col.CategoryName(collector.NewCategory("unknown")))
}
