package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/hookbench/internal/battery"
	"github.com/stellarlinkco/hookbench/internal/hookcfg"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hook configurations or batteries",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newListConfigsCmd())
	cmd.AddCommand(newListBatteriesCmd())
	return cmd
}

func newListConfigsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configs",
		Short: "List available hook configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tEXTRA FILES")
			for _, id := range hookcfg.IDs() {
				cfg, err := hookcfg.Get(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", cfg.ID, cfg.Label, len(cfg.ExtraFiles))
			}
			return tw.Flush()
		},
	}
}

func newListBatteriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batteries",
		Short: "List built-in batteries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCASES\tNEGATIVES")
			for _, bat := range []battery.Battery{battery.Baseline(), battery.Hard()} {
				negatives := 0
				for _, c := range bat.Cases {
					if c.IsNegative() {
						negatives++
					}
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\n", bat.Name, len(bat.Cases), negatives)
			}
			return tw.Flush()
		},
	}
}
