// Command ccdd-pack works on command and data dictionary structure tables.
// It resolves which bit-fields share a storage unit and which array members
// form one string, checks tables for consistency, and converts projects to
// and from EDS XML data sheets.
//
// Usage:
//   - ccdd-pack validate <project>
//   - ccdd-pack pack <project> <table> <variable>...
//   - ccdd-pack strings <project> <table> <variable>...
//   - ccdd-pack groups <project> [table...]
//   - ccdd-pack layout <project> [table...] [--align 4]
//   - ccdd-pack export <project> [-o sheet.xml]
//   - ccdd-pack import <sheet.xml> [-o project.yaml]
//   - ccdd-pack roundtrip <project>
//
// A project is a YAML or CSV file, or a directory of them. Results go to
// stdout; notes and errors go to stderr.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ccdd-pack/internal/pack"
	"ccdd-pack/internal/project"
	"ccdd-pack/internal/structure"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	endian string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "ccdd-pack",
		Short: "Bit-pack resolution and EDS conversion for structure tables",
		Long: `ccdd-pack reads structure tables (YAML, tagged CSV, or a directory of them).

Commands:
  validate   Check tables, macros and data types
  pack       Show the bit-packed group of variables
  strings    Show the members of string variables
  groups     Classify every member of one or more tables
  layout     Show member offsets, padding and structure sizes
  export     Write an EDS XML data sheet
  import     Read an EDS XML data sheet back into a project
  roundtrip  Export, re-import and diff a project
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.endian, "endian", "", "override the project byte order (big or little)")

	root.AddCommand(
		newValidateCmd(opts),
		newPackCmd(opts),
		newStringsCmd(opts),
		newGroupsCmd(opts),
		newLayoutCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newRoundTripCmd(opts),
	)
	return root
}

// load reads a project, reports its load notes and applies --endian.
func (o *options) load(cmd *cobra.Command, path string) (*project.Project, error) {
	p, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	for _, n := range p.Notes {
		fmt.Fprintln(cmd.ErrOrStderr(), "Note:", n)
	}
	if o.endian != "" {
		e, err := project.ParseEndianness(o.endian)
		if err != nil {
			return nil, err
		}
		p.Endianness = e
	}
	return p, nil
}

func newResolver(p *project.Project) *pack.Resolver {
	return pack.NewResolver(p.MacroTable(), p.Registry())
}

func memberList(p *project.Project, table string) (structure.MemberList, error) {
	t, ok := p.Table(table)
	if !ok {
		return structure.MemberList{}, fmt.Errorf("no table %q in project %s", table, p.Name)
	}
	return structure.Members(*t, p.MacroTable())
}

// findMember accepts a variable name or a tree label such as "uint8_t.a:3".
func findMember(list structure.MemberList, arg string) (int, error) {
	name := arg
	if strings.Contains(arg, ".") {
		d, err := structure.ParseNodeName(arg)
		if err != nil {
			return 0, err
		}
		name = d.Name
	}
	i := list.Index(name)
	if i < 0 {
		return 0, fmt.Errorf("no member %q in %s", name, list.Structure)
	}
	return i, nil
}

// describe renders a range as "target: members first..last [names]".
func describe(list structure.MemberList, rng pack.Range) string {
	names := make([]string, 0, rng.Len())
	for i := rng.First; i <= rng.Last; i++ {
		names = append(names, list.Members[i].Name)
	}
	return fmt.Sprintf("%s: members %d..%d [%s]", list.Members[rng.Target].Name, rng.First, rng.Last, strings.Join(names, " "))
}
