// Package timeline builds the per-invocation view of a thread's
// recorded events: unlike the aggregate package, nothing is folded —
// every Begin/End pair becomes its own node even if it recurses, so a
// timeline view can render exactly what happened and when.
package timeline

import (
	"iter"
	"sort"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// Invocation is one concrete Begin/End (or Timespan) occurrence.
type Invocation struct {
	Key      keytable.Key
	Cat      uint32
	Start    clock.Tick
	End      clock.Tick
	Children []*Invocation
}

// CounterSample is one point in a counter's value history.
type CounterSample struct {
	Time  clock.Tick
	Value float64
}

// DataPoint is one data-attribute event, kept with its time since,
// unlike a counter, a data attribute has no running value to fold
// samples into.
type DataPoint struct {
	Time    clock.Tick
	Payload event.Payload
}

// Timeline is the full per-invocation view of one thread.
type Timeline struct {
	Roots    []*Invocation
	Counters map[keytable.Key][]CounterSample
	Markers  map[keytable.Key][]clock.Tick
	Data     map[keytable.Key][]DataPoint
}

func newTimeline() *Timeline {
	return &Timeline{
		Counters: make(map[keytable.Key][]CounterSample),
		Markers:  make(map[keytable.Key][]clock.Tick),
		Data:     make(map[keytable.Key][]DataPoint),
	}
}

// Build walks one thread's events in chronological order into a Timeline.
func Build(events iter.Seq[event.Event]) *Timeline {
	tl := newTimeline()
	counterValue := make(map[keytable.Key]float64)

	var stack []*Invocation

	push := func(inv *Invocation) {
		if len(stack) == 0 {
			tl.Roots = append(tl.Roots, inv)
		} else {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, inv)
		}

		stack = append(stack, inv)
	}

	for e := range events {
		switch e.Kind {
		case event.Begin:
			push(&Invocation{Key: e.Key, Cat: e.Cat, Start: e.Time})

		case event.End:
			if len(stack) == 0 {
				continue
			}

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top.End = e.Time

		case event.Timespan:
			inv := &Invocation{Key: e.Key, Cat: e.Cat, Start: e.Time, End: e.End}
			if len(stack) == 0 {
				tl.Roots = append(tl.Roots, inv)
			} else {
				top := stack[len(stack)-1]
				top.Children = append(top.Children, inv)
			}

		case event.Marker:
			tl.Markers[e.Key] = append(tl.Markers[e.Key], e.Time)

		case event.CounterDelta:
			v := counterValue[e.Key] + e.Payload.F
			counterValue[e.Key] = v
			tl.Counters[e.Key] = append(tl.Counters[e.Key], CounterSample{Time: e.Time, Value: v})

		case event.CounterValue:
			counterValue[e.Key] = e.Payload.F
			tl.Counters[e.Key] = append(tl.Counters[e.Key], CounterSample{Time: e.Time, Value: e.Payload.F})

		case event.Data:
			tl.Data[e.Key] = append(tl.Data[e.Key], DataPoint{Time: e.Time, Payload: e.Payload})
		}
	}

	// Close any invocations left open by a collection taken mid-scope,
	// at their own start time so they still render with zero duration
	// rather than an undefined End.
	for _, inv := range stack {
		inv.End = inv.Start
	}

	return tl
}

// Merge combines same-thread Timelines from successive handoffs into
// one, concatenating each series in chronological order. Inputs are
// not mutated.
func Merge(timelines ...*Timeline) *Timeline {
	out := newTimeline()

	for _, tl := range timelines {
		if tl == nil {
			continue
		}

		out.Roots = append(out.Roots, tl.Roots...)

		for k, samples := range tl.Counters {
			out.Counters[k] = append(out.Counters[k], samples...)
		}

		for k, times := range tl.Markers {
			out.Markers[k] = append(out.Markers[k], times...)
		}

		for k, points := range tl.Data {
			out.Data[k] = append(out.Data[k], points...)
		}
	}

	sort.Slice(out.Roots, func(i, j int) bool { return out.Roots[i].Start < out.Roots[j].Start })

	for k := range out.Counters {
		samples := out.Counters[k]
		sort.Slice(samples, func(i, j int) bool { return samples[i].Time < samples[j].Time })
	}

	for k := range out.Markers {
		times := out.Markers[k]
		sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	}

	for k := range out.Data {
		points := out.Data[k]
		sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	}

	return out
}
