package main

import (
	"fmt"
	"os"

	diffmatchpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/tracecore/tracecore/internal/trace/aggregate"
	"github.com/tracecore/tracecore/internal/trace/eventlist"
	"github.com/tracecore/tracecore/internal/trace/keytable"
	"github.com/tracecore/tracecore/pkg/trace/archive"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before-archive> <after-archive>",
		Short: "Show what changed between two captures' aggregate reports",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1])
		},
	}
}

func runDiff(cmd *cobra.Command, beforePath, afterPath string) error {
	beforeText, err := reportText(beforePath)
	if err != nil {
		return fmt.Errorf("before: %w", err)
	}

	afterText, err := reportText(afterPath)
	if err != nil {
		return fmt.Errorf("after: %w", err)
	}

	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(beforeText, afterText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	fmt.Fprint(cmd.OutOrStdout(), dmp.DiffPrettyText(diffs))

	return nil
}

func reportText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	names := keytable.New()

	coll, err := archive.Read(f, names)
	if err != nil {
		return "", fmt.Errorf("read archive: %w", err)
	}

	merged := eventlist.New()
	for id := range coll.Threads() {
		merged = eventlist.Concat(merged, coll.Events(id))
	}

	root := aggregate.Build(merged.All(), 0)

	return aggregate.FormatReport(root, names), nil
}
