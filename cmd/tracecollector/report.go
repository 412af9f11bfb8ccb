package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracecore/tracecore/internal/humanreport"
	"github.com/tracecore/tracecore/internal/trace/aggregate"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
	"github.com/tracecore/tracecore/pkg/trace/archive"
)

func newReportCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "report <archive-file>",
		Short: "Render a saved capture as an aggregate call-tree report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args[0], width)
		},
	}

	cmd.Flags().IntVar(&width, "width", 100, "name column width")

	return cmd
}

func runReport(cmd *cobra.Command, path string, width int) error {
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

	merged := eventlist.New()
	for id := range coll.Threads() {
		merged = eventlist.Concat(merged, coll.Events(id))
	}

	root := aggregate.Build(merged.All(), 0)

	humanreport.Render(cmd.OutOrStdout(), root, names, humanreport.Options{ColumnWidth: width, Color: isTerminal()})

	return nil
}
