package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ccdd-pack/internal/datatype"
	"ccdd-pack/internal/eds"
	"ccdd-pack/internal/project"
	"ccdd-pack/internal/textutil"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		out    string
		types  string
		schema bool
	)
	cmd := &cobra.Command{
		Use:   "import <sheet.xml>",
		Short: "Read an EDS XML data sheet back into a project",
		Long: `Converts every package of the data sheet into a structure table. Types that
carry no ccdd-pack metadata are matched by encoding against the data types of
--types (a project file or directory), or the default primitive set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			data = textutil.NormalizeUTF8LF(data)
			if schema {
				if err := eds.Validate(bytes.NewReader(data)); err != nil {
					if v := eds.Violations(err); len(v) > 0 {
						return fmt.Errorf("%s violates the schema:\n%s", args[0], strings.Join(v, "\n"))
					}
					return err
				}
			}
			sheet, err := eds.Unmarshal(data)
			if err != nil {
				return err
			}

			p := &project.Project{Name: sheet.Device.Name}
			registry := datatype.DefaultRegistry()
			if types != "" {
				base, err := opts.load(cmd, types)
				if err != nil {
					return err
				}
				p.DataTypes, p.Macros = base.DataTypes, base.Macros
				registry = base.Registry()
			}
			if opts.endian != "" {
				if p.Endianness, err = project.ParseEndianness(opts.endian); err != nil {
					return err
				}
			}
			if p.Tables, err = eds.Import(sheet, registry, p.MacroTable()); err != nil {
				return err
			}

			if out == "" || out == "-" {
				return project.Encode(cmd.OutOrStdout(), p)
			}
			if err := project.Save(out, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (tables=%d)\n", out, len(p.Tables))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output project file, .yaml or .csv (default YAML on stdout)")
	cmd.Flags().StringVar(&types, "types", "", "project whose data types and macros are used")
	cmd.Flags().BoolVar(&schema, "schema", true, "validate the document against the data sheet schema first")
	return cmd
}
