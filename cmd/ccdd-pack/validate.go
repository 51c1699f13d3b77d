package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccdd-pack/internal/validate"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project>",
		Short: "Check tables, macros and data types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			if err := validate.Project(p); err != nil {
				return fmt.Errorf("project %s has issues:\n%w", p.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (tables=%d, macros=%d)\n", p.Name, len(p.Tables), len(p.Macros))
			return nil
		},
	}
}
