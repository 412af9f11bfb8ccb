package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracecore/tracecore/internal/trace/keytable"
	"github.com/tracecore/tracecore/pkg/trace/archive"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <archive-file>",
		Short: "Validate that an archive file is well-formed and schema-conformant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	names := keytable.New()

	coll, err := archive.Read(f, names)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: seq=%d threads=%d\n", coll.Seq(), coll.Len())

	return nil
}
