package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/hookbench/internal/app"
	"github.com/stellarlinkco/hookbench/internal/report"
)

type compareOptions struct {
	batteryName string
	batteryFile string
	noSave      bool
}

func newCompareCmd(st *cliState) *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare <config-a> <config-b>",
		Short: "Run two configurations head to head on the same battery",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareConfigs(cmd, st, &opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.batteryName, "battery", "hard", "built-in battery: baseline|hard")
	cmd.Flags().StringVar(&opts.batteryFile, "battery-file", "", "path to an external battery YAML file")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "skip the run history database")

	return cmd
}

func compareConfigs(cmd *cobra.Command, st *cliState, opts *compareOptions, aID, bID string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("compare: missing config (internal error)")
	}
	if aID == bID {
		return fmt.Errorf("compare: the two configurations must differ (got %q twice)", aID)
	}
	if err := requireSandboxCredential(st.cfg); err != nil {
		return err
	}

	bat, err := resolveBattery(opts.batteryName, opts.batteryFile)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	sb := buildSandboxClient(st.cfg)
	driver := app.NewDriver(sb, buildRunner(sb, st.cfg), buildAssets(st.cfg))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out, err := driver.Execute(ctx, app.Experiment{
		Battery:   bat,
		ConfigIDs: []string{aID, bID},
		Template:  st.cfg.Sandbox.Template,
	})
	if err != nil {
		return err
	}
	if len(out.Results) != 2 {
		return fmt.Errorf("compare: only %d of 2 configurations completed", len(out.Results))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Battery: %s (%d cases)\n\n", bat.Name, len(bat.Cases))
	fmt.Fprint(w, report.RenderComparison(out.Results))
	if s := report.RenderCategoryBreakdown(out.Results); s != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, s)
	}
	if s := report.RenderNegativeAnalysis(out.Results); s != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, s)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, report.RenderDiff(report.PairedDiff(out.Results[0], out.Results[1])))

	path, err := report.WriteArtifact(st.cfg.Assets.ResultsDir, "compare", out.Results, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nResults written to %s\n", path)

	if !opts.noSave {
		if err := persistOutcome(ctx, st, bat.Name, out); err != nil {
			// History is best effort: the run's results are already on disk.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}
	return nil
}
