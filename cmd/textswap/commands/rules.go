package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/textswap/cmd/textswap/opts"
	"github.com/walteh/textswap/pkg/rules"
)

func NewRulesCmd(opts *opts.RootOpts) *cobra.Command {
	var showKeys bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the replacement rules in the store",
		Long: `rules prints every replace pair of the store in the order it is applied.
Pairs with an empty find text are inactive and skipped by perform-single-action.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if showKeys {
				for _, k := range opts.Store.Keys() {
					v, _ := opts.Store.Lookup(k)
					fmt.Fprintf(out, "%s = %v\n", k, v)
				}
				return nil
			}

			location := opts.Store.Location()
			if location == "" {
				location = "empty store"
			}
			opts.Console.Header("rules from " + location)

			set := rules.FromSource(ctx, opts.Store)
			if !set.HasActive() {
				opts.Console.Warning("no active rules")
			}
			for i, r := range set {
				state := "active"
				if !r.Active() {
					state = "inactive"
				}
				fmt.Fprintf(out, "%3d  %-8s %s\n", i+1, state, r)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showKeys, "keys", false, "print the raw store keys instead")

	return cmd
}
