// Command tracecollector drives the tracing engine from outside a
// traced process: it can run a demo workload, render a saved capture
// as a human-readable report, export a capture to Chrome trace-event
// JSON or an interactive echarts timeline, diff two reports, validate
// an archive file, and print the resolved configuration.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracecore/tracecore/internal/config"
	"github.com/tracecore/tracecore/pkg/version"
)

var (
	cfgFile string
	cfg     *config.Config
)

func main() {
	version.InitBinaryVersion()

	root := &cobra.Command{
		Use:           "tracecollector",
		Short:         "Record, report on, and export in-process performance traces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			cfg = loaded

			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a tracecollector config file")

	root.AddCommand(
		newDemoCmd(),
		newReportCmd(),
		newExportCmd(),
		newDiffCmd(),
		newValidateCmd(),
		newPrintConfigCmd(),
	)

	if err := root.Execute(); err != nil {
		slog.Error("tracecollector failed", "error", err)
		os.Exit(1)
	}
}
