package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ccdd-pack/internal/structure"
)

func newLayoutCmd(opts *options) *cobra.Command {
	var align int
	cmd := &cobra.Command{
		Use:   "layout <project> [table...]",
		Short: "Show member offsets, padding and structure sizes",
		Long: `Places the members of each table in memory. Every member is aligned to its
size, up to --align bytes; bit-fields packed together share one unit of their
data type; nested structures use their own computed size. Prints the offset,
size and leading padding of each unit, then the padded structure size.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			lists := make([]structure.MemberList, 0, len(p.Tables))
			byName := make(map[string]structure.MemberList, len(p.Tables))
			for _, t := range p.Tables {
				l, err := structure.Members(t, p.MacroTable())
				if err != nil {
					return err
				}
				lists = append(lists, l)
				byName[t.Name] = l
			}
			lo, err := newResolver(p).NewLayouter(lists, p.Registry(), align)
			if err != nil {
				return err
			}
			tables := args[1:]
			if len(tables) == 0 {
				for _, t := range p.Tables {
					tables = append(tables, t.Name)
				}
			}

			var b strings.Builder
			for _, name := range tables {
				list, ok := byName[name]
				if !ok {
					return fmt.Errorf("no table %q in project %s", name, p.Name)
				}
				l, err := lo.Layout(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(&b, "table %s size=%d align=%d padding=%d\n", name, l.Size, l.Align, l.Padding())
				for _, s := range l.Slots {
					names := make([]string, 0, s.Last-s.First+1)
					for j := s.First; j <= s.Last; j++ {
						names = append(names, list.Members[j].Name)
					}
					fmt.Fprintf(&b, "  %d size=%d pad=%d [%s]\n", s.Offset, s.Size, s.Pad, strings.Join(names, " "))
				}
				if l.Trailing > 0 {
					fmt.Fprintf(&b, "  %d pad=%d\n", l.Size-l.Trailing, l.Trailing)
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
	cmd.Flags().IntVar(&align, "align", 4, "largest member alignment in bytes")
	return cmd
}
