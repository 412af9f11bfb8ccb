package timeline

import (
	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/pkg/alg/interval"
)

// Index supports efficient "what was running at time t" and
// "what ran during [t0, t1]" queries over a Timeline's invocations,
// the operation a timeline viewer's scrub bar or hover tooltip needs
// on every frame, without a thread's full invocation list having to
// be walked linearly each time.
type Index struct {
	tree *interval.Tree[int64, *Invocation]
}

// BuildIndex flattens every invocation (at any nesting depth) into an
// interval tree keyed by [Start, End].
func BuildIndex(tl *Timeline) *Index {
	tree := interval.New[int64, *Invocation]()

	var insert func(inv *Invocation)
	insert = func(inv *Invocation) {
		tree.Insert(int64(inv.Start), int64(inv.End), inv)

		for _, c := range inv.Children {
			insert(c)
		}
	}

	for _, root := range tl.Roots {
		insert(root)
	}

	return &Index{tree: tree}
}

// QueryPoint returns every invocation active at t.
func (idx *Index) QueryPoint(t clock.Tick) []*Invocation {
	hits := idx.tree.QueryPoint(int64(t))

	out := make([]*Invocation, len(hits))
	for i, h := range hits {
		out[i] = h.Value
	}

	return out
}

// QueryRange returns every invocation overlapping [start, end].
func (idx *Index) QueryRange(start, end clock.Tick) []*Invocation {
	hits := idx.tree.QueryOverlap(int64(start), int64(end))

	out := make([]*Invocation, len(hits))
	for i, h := range hits {
		out[i] = h.Value
	}

	return out
}

// Len returns the number of indexed invocations.
func (idx *Index) Len() int {
	return idx.tree.Len()
}
