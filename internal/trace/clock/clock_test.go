package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracecore/tracecore/internal/trace/clock"
)

func TestNowIsMonotonic(t *testing.T) {
	t.Parallel()

	prev := clock.Now()
	for range 1000 {
		cur := clock.Now()
		assert.GreaterOrEqual(t, int64(cur), int64(prev))
		prev = cur
	}
}

func TestTicksToSecondsRoundTrip(t *testing.T) {
	t.Parallel()

	t1 := clock.MillisToTicks(1500)
	assert.InDelta(t, 1.5, clock.TicksToSeconds(t1), 1e-9)
	assert.InDelta(t, 1500.0, clock.TicksToMillis(t1), 1e-9)
}

func TestCalibrateSetsOverheadAndQuantum(t *testing.T) {
	t.Parallel()

	clock.Calibrate(func() {})

	assert.GreaterOrEqual(t, clock.ScopeOverhead(), clock.Tick(0))
	assert.Greater(t, clock.TickQuantum(), clock.Tick(0))
}
