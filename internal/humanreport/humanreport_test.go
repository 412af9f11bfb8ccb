package humanreport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracecore/tracecore/internal/humanreport"
	"github.com/tracecore/tracecore/internal/trace/aggregate"
	"github.com/tracecore/tracecore/internal/trace/event"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
)

func TestRenderProducesNonEmptyTable(t *testing.T) {
	t.Parallel()

	table := keytable.New()
	outer := table.Intern("outer")
	inner := table.Intern("inner")

	list := eventlist.New()
	list.Append(event.NewBegin(outer, 0, 0))
	list.Append(event.NewBegin(inner, 0, 10))
	list.Append(event.NewEnd(inner, 0, 40))
	list.Append(event.NewEnd(outer, 0, 100))

	root := aggregate.Build(list.All(), 0)

	var buf bytes.Buffer
	humanreport.Render(&buf, root, table, humanreport.Options{ColumnWidth: 40, Color: false})

	out := buf.String()
	assert.Contains(t, out, "outer")
	assert.Contains(t, out, "inner")
	assert.Contains(t, out, "Calls")
}
