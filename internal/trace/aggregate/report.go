package aggregate

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

const indentUnit = "  "

// FormatReport renders a call tree as indented, tab-separated text:
// one line per node, with depth conveyed by a two-space indent per
// level and the node's name, call count, inclusive, and exclusive
// time (in milliseconds) as tab-separated fields. It is deliberately
// simple enough for ParseReport to reconstruct an equivalent tree.
func FormatReport(root *Node, names *keytable.Table) string {
	var b strings.Builder

	for _, c := range root.Children {
		formatNode(&b, c, names, 0)
	}

	return b.String()
}

// label renders a node's name annotated per the report format: a
// recursion head is prefixed with "*", a recursion marker (the folded
// stand-in for a head's deeper re-entries) is bracketed in "[" "]".
func label(n *Node, names *keytable.Table) string {
	name := names.Name(n.Key)

	switch {
	case n.RecursionMarker:
		return "[" + name + "]"
	case n.RecursionHead:
		return "*" + name
	default:
		return name
	}
}

func formatNode(b *strings.Builder, n *Node, names *keytable.Table, depth int) {
	fmt.Fprintf(
		b, "%s%s\t%d\t%s\t%s\n",
		strings.Repeat(indentUnit, depth),
		label(n, names),
		n.Count,
		strconv.FormatFloat(clock.TicksToMillis(n.Inclusive), 'f', 3, 64),
		strconv.FormatFloat(clock.TicksToMillis(n.Exclusive), 'f', 3, 64),
	)

	for _, c := range n.Children {
		formatNode(b, c, names, depth+1)
	}
}

// ParseReport reconstructs a tree from FormatReport's output, interning
// node names into table. The returned tree is structurally equivalent
// to the original (same shape, names, counts, and times to millisecond
// precision), including RecursionHead/RecursionMarker, recovered from
// the "*" prefix and "[" "]" bracketing FormatReport encodes them with.
func ParseReport(text string, table *keytable.Table) (*Node, error) {
	root := &Node{}
	stack := []*Node{root}
	depths := []int{-1}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		depth := 0
		rest := line
		for strings.HasPrefix(rest, indentUnit) {
			depth++
			rest = rest[len(indentUnit):]
		}

		fields := strings.Split(rest, "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("aggregate: malformed report line %q", line)
		}

		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("aggregate: bad count in %q: %w", line, err)
		}

		inclMs, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("aggregate: bad inclusive time in %q: %w", line, err)
		}

		exclMs, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("aggregate: bad exclusive time in %q: %w", line, err)
		}

		rawLabel := fields[0]

		var isHead, isMarker bool

		switch {
		case strings.HasPrefix(rawLabel, "[") && strings.HasSuffix(rawLabel, "]"):
			isMarker = true
			rawLabel = strings.TrimSuffix(strings.TrimPrefix(rawLabel, "["), "]")
		case strings.HasPrefix(rawLabel, "*"):
			isHead = true
			rawLabel = strings.TrimPrefix(rawLabel, "*")
		}

		node := &Node{
			Key:             table.Intern(rawLabel),
			Count:           count,
			Inclusive:       clock.MillisToTicks(inclMs),
			Exclusive:       clock.MillisToTicks(exclMs),
			RecursionHead:   isHead,
			RecursionMarker: isMarker,
		}

		for len(depths) > 0 && depths[len(depths)-1] >= depth {
			stack = stack[:len(stack)-1]
			depths = depths[:len(depths)-1]
		}

		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)

		stack = append(stack, node)
		depths = append(depths, depth)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("aggregate: scan report: %w", err)
	}

	return root, nil
}
