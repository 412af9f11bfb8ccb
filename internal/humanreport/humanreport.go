// Package humanreport renders an aggregate call tree as a colorized
// terminal table, the view a developer runs `tracecollector report`
// to read directly rather than feeding into another tool.
package humanreport

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tracecore/tracecore/internal/trace/aggregate"
	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

// Options controls how a report is rendered.
type Options struct {
	// ColumnWidth caps the name column so deeply nested call trees
	// don't blow out the terminal width.
	ColumnWidth int
	// Color enables ANSI highlighting of the hottest exclusive-time rows.
	Color bool
}

// hotThresholdPercent marks a row's name in red when its exclusive
// time is at least this fraction of the tree's total inclusive time.
const hotThresholdPercent = 0.10

// Render writes root as a table to w: one row per call-tree node,
// indented by depth, with call count and inclusive/exclusive time.
func Render(w io.Writer, root *aggregate.Node, names *keytable.Table, opts Options) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Function", "Calls", "Inclusive", "Exclusive", "% of Total"})

	total := totalInclusive(root)

	var walk func(n *aggregate.Node, depth int)
	walk = func(n *aggregate.Node, depth int) {
		name := strings.Repeat("  ", depth) + names.Name(n.Key)
		if opts.ColumnWidth > 0 && len(name) > opts.ColumnWidth {
			name = name[:opts.ColumnWidth-1] + "…"
		}

		pct := 0.0
		if total > 0 {
			pct = float64(n.Exclusive) / float64(total) * 100
		}

		if opts.Color && total > 0 && float64(n.Exclusive)/float64(total) >= hotThresholdPercent {
			name = color.RedString(name)
		}

		tw.AppendRow(table.Row{
			name,
			n.Count,
			formatDuration(n.Inclusive),
			formatDuration(n.Exclusive),
			fmt.Sprintf("%.1f%%", pct),
		})

		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}

	for _, c := range root.Children {
		walk(c, 0)
	}

	tw.Render()
}

func totalInclusive(root *aggregate.Node) clock.Tick {
	var sum clock.Tick
	for _, c := range root.Children {
		sum += c.Inclusive
	}

	return sum
}

func formatDuration(t clock.Tick) string {
	seconds := clock.TicksToSeconds(t)
	if seconds < 0 {
		seconds = 0
	}

	return humanize.SIWithDigits(seconds, 3, "s")
}
