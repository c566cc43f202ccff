package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/hookbench/internal/app"
	"github.com/stellarlinkco/hookbench/internal/hookcfg"
	"github.com/stellarlinkco/hookbench/internal/report"
	"github.com/stellarlinkco/hookbench/internal/store"
)

type runOptions struct {
	configs     []string
	batteryName string
	batteryFile string
	noSave      bool
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a battery against hook configurations",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, st, &opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.configs, "configs", nil, "hook configuration ids (default: all)")
	cmd.Flags().StringVar(&opts.batteryName, "battery", "baseline", "built-in battery: baseline|hard")
	cmd.Flags().StringVar(&opts.batteryFile, "battery-file", "", "path to an external battery YAML file")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "skip the run history database")

	return cmd
}

func runExperiment(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if err := requireSandboxCredential(st.cfg); err != nil {
		return err
	}

	bat, err := resolveBattery(opts.batteryName, opts.batteryFile)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	configIDs := opts.configs
	if len(configIDs) == 0 {
		configIDs = hookcfg.IDs()
	}

	sb := buildSandboxClient(st.cfg)
	driver := app.NewDriver(sb, buildRunner(sb, st.cfg), buildAssets(st.cfg))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out, err := driver.Execute(ctx, app.Experiment{
		Battery:   bat,
		ConfigIDs: configIDs,
		Template:  st.cfg.Sandbox.Template,
	})
	if err != nil {
		return err
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
	if len(out.FailedConfigs) > 0 {
		fmt.Fprintf(w, "\nProvisioning failed for: %s\n", strings.Join(out.FailedConfigs, ", "))
	}

	path, err := report.WriteArtifact(st.cfg.Assets.ResultsDir, "run", out.Results, time.Now())
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

func persistOutcome(ctx context.Context, st *cliState, batteryName string, out *app.Outcome) error {
	stor, err := store.NewSQLiteStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer stor.Close()

	if _, err := app.SaveOutcome(ctx, stor, batteryName, out); err != nil {
		return err
	}
	return nil
}
