package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/hookbench/internal/store"
)

type historyOptions struct {
	configID string
	battery  string
	limit    int
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored runs, or one configuration's trend",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configID, "config-id", "", "show the trend for one hook configuration")
	cmd.Flags().StringVar(&opts.battery, "battery", "", "only runs of this battery")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max rows (default 50)")

	return cmd
}

func showHistory(cmd *cobra.Command, st *cliState, opts *historyOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	stor, err := store.NewSQLiteStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer stor.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	if configID := strings.TrimSpace(opts.configID); configID != "" {
		history, err := stor.GetConfigHistory(ctx, configID, opts.limit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tRUN\tTESTS\tACTIVATION\tACCURACY\tERRORS")
		for _, cr := range history {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\t%.1f%%\t%d\n",
				cr.CreatedAt.Format(time.RFC3339), cr.RunID, cr.TotalTests,
				100*cr.ActivationRate, 100*cr.AccuracyRate, cr.ErrorCount)
		}
		return tw.Flush()
	}

	runs, err := stor.ListRuns(ctx, store.RunFilter{
		Battery: opts.battery,
		Limit:   opts.limit,
	})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tBATTERY\tCONFIGS\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Battery, r.TotalConfigs, r.FailedConfigs)
	}
	return tw.Flush()
}
