package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccdd-pack/internal/diff"
	"ccdd-pack/internal/eds"
)

func newRoundTripCmd(opts *options) *cobra.Command {
	var context int
	cmd := &cobra.Command{
		Use:   "roundtrip <project>",
		Short: "Export, re-import and diff a project",
		Long: `Exports the project to an EDS data sheet in memory, imports it again and
compares the tables. Differences are printed as a unified diff of the table
text and make the command fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			data, _, err := exportSheet(p, true)
			if err != nil {
				return err
			}
			sheet, err := eds.Unmarshal(data)
			if err != nil {
				return err
			}
			tables, err := eds.Import(sheet, p.Registry(), p.MacroTable())
			if err != nil {
				return err
			}
			patch, _ := diff.Tables(p.Name, p.Name+" (reimported)", p.Tables, tables, diff.Options{Context: context})
			if patch != "" {
				fmt.Fprint(cmd.OutOrStdout(), patch)
				return fmt.Errorf("round trip changed project %s", p.Name)
			}
			rows := 0
			for _, t := range tables {
				rows += len(t.Rows)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Round trip OK: %s (tables=%d, rows=%d, bytes=%d)\n", p.Name, len(tables), rows, len(data))
			return nil
		},
	}
	cmd.Flags().IntVar(&context, "context", 3, "context lines in the diff")
	return cmd
}
