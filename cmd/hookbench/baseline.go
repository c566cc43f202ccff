package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/hookbench/internal/baseline"
	"github.com/stellarlinkco/hookbench/internal/hookcfg"
	"github.com/stellarlinkco/hookbench/internal/report"
)

type baselineOptions struct {
	batteryName string
	batteryFile string
	model       string
}

func newBaselineCmd(st *cliState) *cobra.Command {
	var opts baselineOptions

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Probe skill selection through the messages API, without a sandbox",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBaseline(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.batteryName, "battery", "baseline", "built-in battery: baseline|hard")
	cmd.Flags().StringVar(&opts.batteryFile, "battery-file", "", "path to an external battery YAML file")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (default: the prober's built-in default)")

	return cmd
}

func runBaseline(cmd *cobra.Command, st *cliState, opts *baselineOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("baseline: missing config (internal error)")
	}

	bat, err := resolveBattery(opts.batteryName, opts.batteryFile)
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}

	skills, err := baseline.LoadManifest(st.cfg.Assets.SkillsDir)
	if err != nil {
		return err
	}

	var proberOpts []baseline.Option
	if opts.model != "" {
		proberOpts = append(proberOpts, baseline.WithModel(opts.model))
	}
	p := baseline.NewProber(os.Getenv("ANTHROPIC_API_KEY"), proberOpts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results := p.RunBattery(ctx, skills, bat)
	cr := report.Aggregate(hookcfg.Config{ID: baseline.ConfigID, Label: "Direct messages API"}, results)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Battery: %s (%d cases, %d skills offered)\n\n", bat.Name, len(bat.Cases), len(skills))
	fmt.Fprint(w, report.RenderBreakdown(cr))

	path, err := report.WriteArtifact(st.cfg.Assets.ResultsDir, "baseline", cr, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nResults written to %s\n", path)
	return nil
}
