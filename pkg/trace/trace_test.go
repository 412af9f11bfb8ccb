package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracecore/tracecore/pkg/trace"
)

func TestScopeRecordsBeginEndWhenEnabled(t *testing.T) {
	trace.Enable()
	defer trace.Disable()

	key := trace.NewStaticKey("trace_test.work")
	cat := trace.NewCategory("test")

	func() {
		s := trace.NewScope(key, cat)
		defer s.Close()
	}()

	coll := trace.CreateCollection()
	require.Greater(t, coll.Len(), 0)

	found := false
	for id := range coll.Threads() {
		if coll.Events(id).Len() > 0 {
			found = true
		}
	}

	assert.True(t, found)
}

func TestScopeIsNoOpWhenDisabled(t *testing.T) {
	trace.Disable()

	key := trace.NewStaticKey("trace_test.disabled")
	cat := trace.NewCategory("test")

	s := trace.NewScope(key, cat)
	s.Close() // must not panic

	assert.False(t, trace.IsEnabled())
}

func TestSubscribeReceivesCollections(t *testing.T) {
	trace.Enable()
	defer trace.Disable()

	received := make(chan int, 1)
	unsub := trace.Subscribe(trace.VisitorFunc(func(c *trace.Collection) {
		received <- c.Len()
	}))
	defer unsub()

	key := trace.NewStaticKey("trace_test.subscribed")
	cat := trace.NewCategory("test")
	trace.Marker(key, cat)

	trace.CreateCollection()

	select {
	case n := <-received:
		assert.GreaterOrEqual(t, n, 0)
	default:
		t.Fatal("expected subscriber to be notified")
	}
}

func TestCounterDeltaAndSet(t *testing.T) {
	trace.Enable()
	defer trace.Disable()

	cat := trace.NewCategory("test")
	counter := trace.NewCounter("trace_test.counter", cat)

	counter.Set(10)
	counter.Delta(-2)

	coll := trace.CreateCollection()
	assert.Greater(t, coll.Len(), 0)
}

func TestScriptHostPushPop(t *testing.T) {
	trace.Enable()
	defer trace.Disable()

	key := trace.NewStaticKey("trace_test.script")
	cat := trace.NewCategory("test")

	trace.DefaultScriptHost.PushScope(key, cat)
	trace.DefaultScriptHost.PopScope()

	coll := trace.CreateCollection()
	assert.Greater(t, coll.Len(), 0)
}
