package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracecore/tracecore/internal/humanreport"
	"github.com/tracecore/tracecore/internal/trace/aggregate"
	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
	"github.com/tracecore/tracecore/pkg/trace"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a synthetic recursive workload and print its aggregate report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd)
		},
	}
}

func runDemo(cmd *cobra.Command) error {
	trace.Enable()
	defer trace.Disable()
	trace.Calibrate()

	workKey := trace.NewStaticKey("demo.work")
	fibKey := trace.NewStaticKey("demo.fib")
	cat := trace.NewCategory("demo")

	work := func() {
		s := trace.NewScope(workKey, cat)
		defer s.Close()

		var fib func(n int) int
		fib = func(n int) int {
			s := trace.NewScope(fibKey, cat)
			defer s.Close()

			if n < 2 {
				return n
			}

			return fib(n-1) + fib(n-2)
		}

		fib(12)
		time.Sleep(time.Millisecond)
	}

	work()

	coll := trace.CreateCollection()

	merged := eventlist.New()

	for id := range coll.Threads() {
		merged = eventlist.Concat(merged, coll.Events(id))
	}

	root := aggregate.Build(merged.All(), clock.ScopeOverhead())

	names := keytable.Global()

	humanreport.Render(cmd.OutOrStdout(), root, names, humanreport.Options{ColumnWidth: 50, Color: isTerminal()})

	return nil
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return (fi.Mode() & os.ModeCharDevice) != 0
}
