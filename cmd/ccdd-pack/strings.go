package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStringsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "strings <project> <table> <variable>...",
		Short: "Show the members of string variables",
		Long: `Prints, for each character array member, the run of members that make up
the same string (all indices but the last one equal).`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			list, err := memberList(p, args[1])
			if err != nil {
				return err
			}
			r := newResolver(p)
			for _, v := range args[2:] {
				i, err := findMember(list, v)
				if err != nil {
					return err
				}
				if !r.IsStringMember(list.Members[i]) {
					return fmt.Errorf("%s.%s is not a member of a character array", list.Structure, list.Members[i].Name)
				}
				rng, err := r.StringMemberRange(list, i)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), describe(list, rng))
			}
			return nil
		},
	}
}
