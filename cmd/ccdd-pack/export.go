package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ccdd-pack/internal/bundle"
	"ccdd-pack/internal/eds"
	"ccdd-pack/internal/fileio"
	"ccdd-pack/internal/project"
	"ccdd-pack/internal/validate"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		out      string
		zipOut   string
		noSchema bool
	)
	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Write an EDS XML data sheet",
		Long: `Validates the project and writes one EDS package per table. The document is
checked against the bundled data sheet schema before it is written.

With --zip, writes a reproducible archive instead: the project, the data sheet,
one data sheet per table and a README.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			data, sheet, err := exportSheet(p, !noSchema)
			if err != nil {
				return err
			}
			if zipOut != "" {
				if err := bundle.Write(zipOut, p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote archive %s (tables=%d)\n", zipOut, len(p.Tables))
				return nil
			}
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := fileio.WriteFile(out, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", out, sheet)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&zipOut, "zip", "", "write an export archive to this path")
	cmd.Flags().BoolVar(&noSchema, "no-schema", false, "skip schema validation of the written document")
	return cmd
}

// exportSheet validates p and renders its data sheet.
func exportSheet(p *project.Project, checkSchema bool) ([]byte, *eds.DataSheet, error) {
	if err := validate.Project(p); err != nil {
		return nil, nil, fmt.Errorf("project %s has issues:\n%w", p.Name, err)
	}
	sheet, err := eds.Export(p)
	if err != nil {
		return nil, nil, err
	}
	data, err := eds.Marshal(sheet)
	if err != nil {
		return nil, nil, err
	}
	if checkSchema {
		if err := eds.Validate(bytes.NewReader(data)); err != nil {
			if v := eds.Violations(err); len(v) > 0 {
				return nil, nil, fmt.Errorf("exported document violates the schema:\n%s", strings.Join(v, "\n"))
			}
			return nil, nil, err
		}
	}
	return data, sheet, nil
}
