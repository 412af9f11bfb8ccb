// Package aggregate builds the recursion-folded call tree a report
// view renders: one node per distinct call path, with inclusive and
// exclusive time, call counts, and every recursive re-entry of a
// function folded into the single node that first opened it.
package aggregate

import (
	"iter"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// Node is one call-tree entry. The root returned by Build has an
// invalid Key and represents the thread itself; its Children are the
// top-level scopes.
type Node struct {
	Key       keytable.Key
	Cat       uint32
	Count     int
	Inclusive clock.Tick
	Exclusive clock.Tick
	Children  []*Node

	// RecursionHead marks a node that was re-entered while already on
	// the stack: every nested re-entry's time was folded into this
	// node instead of becoming a separate child, so its Count can
	// exceed the number of times it appears as a distinct tree entry.
	RecursionHead bool

	// RecursionMarker marks a leaf standing in for a recursion head's
	// folded descendants. It carries the same Key as its parent (the
	// head) purely for display; its own Count is the number of
	// re-entries folded away, not a duration.
	RecursionMarker bool
}

type frame struct {
	node     *Node
	start    clock.Tick
	childSum clock.Tick
}

// Build walks one thread's events, in chronological order, into a
// folded call tree. overhead is the per-scope recording cost (from
// clock.ScopeOverhead) subtracted from every node's inclusive and
// exclusive time so the report reflects traced work, not tracing cost;
// pass 0 to skip correction.
func Build(events iter.Seq[event.Event], overhead clock.Tick) *Node {
	root := &Node{}
	stack := []*frame{{node: root}}
	openDepth := make(map[*Node]int)
	childTime := make(map[*Node]clock.Tick)
	markers := make(map[*Node]*Node)

	var lastSeen clock.Tick

	for e := range events {
		if e.Time > lastSeen {
			lastSeen = e.Time
		}

		if e.Kind == event.Timespan && e.End > lastSeen {
			lastSeen = e.End
		}

		switch e.Kind {
		case event.Begin:
			pushBegin(&stack, openDepth, markers, e.Key, e.Cat, e.Time)
		case event.End:
			popEnd(&stack, openDepth, childTime, e.Time, overhead)
		case event.Timespan:
			// A timespan is a complete interval reported in one shot;
			// treat it as an atomic Begin immediately followed by End.
			pushBegin(&stack, openDepth, markers, e.Key, e.Cat, e.Time)
			popEnd(&stack, openDepth, childTime, e.End, overhead)
		default:
			// Markers, counters, and data events don't shape the call
			// tree; they are carried by the timeline builder instead.
		}
	}

	// Unbalanced Begins with no matching End (e.g. a collection taken
	// mid-scope) are closed at the last timestamp seen in the list so
	// partial work still shows up rather than being silently dropped.
	for len(stack) > 1 {
		popEnd(&stack, openDepth, childTime, lastSeen, overhead)
	}

	sortChildren(root)

	return root
}

func findOrCreateChild(parent *Node, key keytable.Key, cat uint32) *Node {
	for _, c := range parent.Children {
		if c.Key == key {
			return c
		}
	}

	child := &Node{Key: key, Cat: cat}
	parent.Children = append(parent.Children, child)

	return child
}

func findOpenAncestor(stack []*frame, key keytable.Key) *Node {
	// Skip the root sentinel (index 0) and the current top, which is
	// handled by the caller before this is consulted.
	for i := len(stack) - 1; i >= 1; i-- {
		if stack[i].node.Key == key {
			return stack[i].node
		}
	}

	return nil
}

func pushBegin(stack *[]*frame, openDepth map[*Node]int, markers map[*Node]*Node, key keytable.Key, cat uint32, t clock.Tick) {
	top := (*stack)[len(*stack)-1]

	var target *Node
	if ancestor := findOpenAncestor(*stack, key); ancestor != nil {
		ancestor.RecursionHead = true
		target = ancestor

		marker, ok := markers[ancestor]
		if !ok {
			// Every deeper same-key re-entry folds into one marker leaf
			// rather than growing the tree with a subtree per re-entry.
			marker = &Node{Key: key, Cat: cat, RecursionMarker: true}
			ancestor.Children = append(ancestor.Children, marker)
			markers[ancestor] = marker
		}

		marker.Count++
	} else {
		target = findOrCreateChild(top.node, key, cat)
	}

	openDepth[target]++
	*stack = append(*stack, &frame{node: target, start: t})
}

func popEnd(stack *[]*frame, openDepth map[*Node]int, childTime map[*Node]clock.Tick, t clock.Tick, overhead clock.Tick) {
	n := len(*stack)
	if n <= 1 {
		return
	}

	top := (*stack)[n-1]
	*stack = (*stack)[:n-1]

	dur := t - top.start
	if dur < 0 {
		dur = 0
	}

	top.node.Count++
	openDepth[top.node]--

	newTop := (*stack)[len(*stack)-1]
	if newTop.node != top.node {
		childTime[newTop.node] += dur
	}

	if openDepth[top.node] == 0 {
		incl := dur
		if incl > overhead {
			incl -= overhead
		} else {
			incl = 0
		}

		top.node.Inclusive += incl

		excl := incl - childTime[top.node]
		if excl < 0 {
			excl = 0
		}

		top.node.Exclusive += excl
		delete(childTime, top.node)
	}
}

func sortChildren(n *Node) {
	for _, c := range n.Children {
		sortChildren(c)
	}

	// Simple insertion sort: call trees rarely have more than a
	// handful of distinct children per node, so this avoids pulling
	// in sort.Slice's reflection-based comparator for the common case.
	for i := 1; i < len(n.Children); i++ {
		j := i
		for j > 0 && n.Children[j-1].Inclusive < n.Children[j].Inclusive {
			n.Children[j-1], n.Children[j] = n.Children[j], n.Children[j-1]
			j--
		}
	}
}
