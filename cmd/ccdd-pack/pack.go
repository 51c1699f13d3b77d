package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccdd-pack/internal/pack"
)

func newPackCmd(opts *options) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "pack <project> <table> <variable>...",
		Short: "Show the bit-packed group of variables",
		Long: `Prints, for each variable, the run of bit-fields stored in the same unit.
Fields are packed greedily in declaration order; a field that would overflow
the unit starts a new one. A variable may also be given as a tree label such
as "uint8_t.flags:3".`,
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
			if err := r.Check(list); err != nil {
				return err
			}
			cache := pack.NewCache()
			lines := make([]string, 0, len(args)-2)
			for _, v := range args[2:] {
				i, err := findMember(list, v)
				if err != nil {
					return err
				}
				rng, err := r.CachedPackRange(cache, list, i)
				if err != nil {
					return err
				}
				lines = append(lines, describe(list, rng))
			}
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			if stats {
				hits, misses := cache.Stats()
				fmt.Fprintf(cmd.ErrOrStderr(), "Note: pack cache hits=%d misses=%d\n", hits, misses)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "report pack cache hits and misses")
	return cmd
}
