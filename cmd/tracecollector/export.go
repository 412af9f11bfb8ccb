package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/tracecore/tracecore/internal/trace/clock"
	"github.com/tracecore/tracecore/internal/trace/collection"
	"github.com/tracecore/tracecore/internal/trace/keytable"
	"github.com/tracecore/tracecore/internal/trace/timeline"
	"github.com/tracecore/tracecore/pkg/trace/archive"
	"github.com/tracecore/tracecore/pkg/trace/chrometrace"
)

func newExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <archive-file>",
		Short: "Export a saved capture to chrome trace-event JSON or an interactive echarts timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], format, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "chrome", "export format: chrome|echarts")
	cmd.Flags().StringVar(&output, "output", "trace.out", "output file path")

	return cmd
}

func runExport(path, format, output string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	names := keytable.New()

	coll, err := archive.Read(f, names)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	switch format {
	case "chrome":
		return exportChrome(coll, names, output)
	case "echarts":
		return exportECharts(coll, names, output)
	default:
		return fmt.Errorf("unknown export format %q (want chrome or echarts)", format)
	}
}

func exportChrome(coll *collection.Collection, names *keytable.Table, output string) error {
	doc := chrometrace.Encode(coll, names, nil)

	b, err := chrometrace.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode chrome trace: %w", err)
	}

	if err := os.WriteFile(output, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	return nil
}

func exportECharts(coll *collection.Collection, names *keytable.Table, output string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "tracecore timeline", Subtitle: "exclusive time per scope, milliseconds"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "scope"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "duration (ms)"}),
	)

	durations := make(map[string]float64)

	for id := range coll.Threads() {
		list := coll.Events(id)
		if list == nil {
			continue
		}

		tl := timeline.Build(list.All())

		var walk func(inv *timeline.Invocation)
		walk = func(inv *timeline.Invocation) {
			excl := inv.End - inv.Start

			for _, c := range inv.Children {
				excl -= c.End - c.Start
				walk(c)
			}

			if excl < 0 {
				excl = 0
			}

			durations[names.Name(inv.Key)] += clock.TicksToMillis(excl)
		}

		for _, root := range tl.Roots {
			walk(root)
		}
	}

	var labels []string

	var values []opts.BarData

	for name, ms := range durations {
		labels = append(labels, name)
		values = append(values, opts.BarData{Value: ms})
	}

	bar.SetXAxis(labels).AddSeries("exclusive ms", values)

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("render echarts: %w", err)
	}

	return nil
}
