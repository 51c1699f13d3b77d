package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ccdd-pack/internal/project"
	"ccdd-pack/internal/structure"
)

func newGroupsCmd(opts *options) *cobra.Command {
	var selected []string
	cmd := &cobra.Command{
		Use:   "groups <project> [table...]",
		Short: "Classify every member of one or more tables",
		Long: `Lists each member with its kind (plain, bit-wise, packed or string) and the
range of members it is grouped with. With --select, prints instead the
selection widened to whole packs and whole strings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			tables := args[1:]
			if len(tables) == 0 {
				for _, t := range p.Tables {
					tables = append(tables, t.Name)
				}
			}
			if len(selected) > 0 {
				if len(tables) != 1 {
					return fmt.Errorf("--select needs exactly one table, got %d", len(tables))
				}
				return expandSelection(cmd, p, tables[0], selected)
			}
			r := newResolver(p)
			var b strings.Builder
			for _, name := range tables {
				list, err := memberList(p, name)
				if err != nil {
					return err
				}
				anns, err := r.Annotate(list)
				if err != nil {
					return err
				}
				fmt.Fprintf(&b, "table %s (%d members)\n", name, list.Len())
				for i, a := range anns {
					fmt.Fprintf(&b, "  %d %s %d..%d %s\n", i, a.Kind, a.Range.First, a.Range.Last, structure.NodeName(list.Members[i]))
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
	cmd.Flags().StringSliceVar(&selected, "select", nil, "comma-separated variables to widen to their groups")
	return cmd
}

func expandSelection(cmd *cobra.Command, p *project.Project, table string, names []string) error {
	list, err := memberList(p, table)
	if err != nil {
		return err
	}
	idx := make([]int, 0, len(names))
	for _, n := range names {
		i, err := findMember(list, n)
		if err != nil {
			return err
		}
		idx = append(idx, i)
	}
	wide, err := newResolver(p).Expand(list, idx)
	if err != nil {
		return err
	}
	for _, i := range wide {
		fmt.Fprintln(cmd.OutOrStdout(), list.Members[i].Name)
	}
	return nil
}
