// Package app orchestrates experiments: one ephemeral sandbox per hook
// configuration, the full battery inside it, aggregation at the end.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stellarlinkco/hookbench/internal/battery"
	"github.com/stellarlinkco/hookbench/internal/hookcfg"
	"github.com/stellarlinkco/hookbench/internal/report"
	"github.com/stellarlinkco/hookbench/internal/runner"
	"github.com/stellarlinkco/hookbench/internal/sandbox"
)

// Experiment names what to run: a battery against a set of hook
// configurations, each in its own sandbox built from Template.
type Experiment struct {
	Battery   battery.Battery
	ConfigIDs []string
	Template  string
}

// Outcome collects what an experiment produced. FailedConfigs lists the
// configurations whose sandbox could not be provisioned; their results are
// absent rather than zeroed.
type Outcome struct {
	Results       []report.ConfigResult
	FailedConfigs []string
	StartedAt     time.Time
	FinishedAt    time.Time
}

type Driver struct {
	sb     *sandbox.Client
	run    *runner.Runner
	assets sandbox.Assets

	logf func(format string, args ...any)
	now  func() time.Time
}

func NewDriver(sb *sandbox.Client, run *runner.Runner, assets sandbox.Assets) *Driver {
	return &Driver{
		sb:     sb,
		run:    run,
		assets: assets,
		logf:   log.Printf,
		now:    time.Now,
	}
}

// Execute runs the experiment sequentially, one configuration at a time.
// A configuration whose sandbox fails to provision is logged and skipped;
// the remaining configurations still run. Execute errors only when nothing
// could run at all.
func (d *Driver) Execute(ctx context.Context, exp Experiment) (*Outcome, error) {
	if d == nil || d.sb == nil || d.run == nil {
		return nil, errors.New("app: nil driver")
	}
	if len(exp.ConfigIDs) == 0 {
		return nil, errors.New("app: no configurations selected")
	}
	if len(exp.Battery.Cases) == 0 {
		return nil, errors.New("app: empty battery")
	}

	// Resolve every configuration up front so a typo fails before any
	// sandbox is created.
	configs := make([]hookcfg.Config, 0, len(exp.ConfigIDs))
	for _, id := range exp.ConfigIDs {
		cfg, err := hookcfg.Get(id)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		configs = append(configs, cfg)
	}

	out := &Outcome{StartedAt: d.now()}
	for _, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("app: experiment canceled: %w", err)
		}

		var results []runner.TestResult
		err := sandbox.With(ctx, d.sb, exp.Template, func(h sandbox.Handle) error {
			if err := sandbox.Setup(ctx, d.sb, h, cfg, d.assets); err != nil {
				return err
			}
			for _, c := range exp.Battery.Cases {
				if err := ctx.Err(); err != nil {
					return err
				}
				results = append(results, d.run.Run(ctx, h, cfg.ID, c))
			}
			return nil
		})
		if err != nil {
			d.logf("app: config %s: %v", cfg.ID, err)
			// A teardown failure after a completed battery leaks a sandbox
			// but the results are intact; keep them.
			if !errors.Is(err, sandbox.ErrTeardown) {
				out.FailedConfigs = append(out.FailedConfigs, cfg.ID)
				continue
			}
		}

		out.Results = append(out.Results, report.Aggregate(cfg, results))
	}
	out.FinishedAt = d.now()

	if len(out.Results) == 0 {
		return nil, fmt.Errorf("app: all %d configurations failed", len(configs))
	}
	return out, nil
}
