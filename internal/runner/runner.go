// Package runner executes single test cases inside a provisioned sandbox.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stellarlinkco/hookbench/internal/activation"
	"github.com/stellarlinkco/hookbench/internal/battery"
	"github.com/stellarlinkco/hookbench/internal/sandbox"
)

const (
	defaultMonitorTimeout = 120 * time.Second
	defaultWaitSlack      = 30 * time.Second
	defaultMonitorPath    = "/root/monitor-query.sh"
	defaultQueryDir       = "/tmp"
)

// Runner runs one test case at a time against an already-provisioned
// sandbox. It never returns an error: every failure is converted into the
// TestResult so a bad case cannot abort the surrounding batch.
type Runner struct {
	sb  *sandbox.Client
	cfg Config

	now func() time.Time
}

// New creates a Runner with defaults filled in.
func New(sb *sandbox.Client, cfg Config) *Runner {
	if cfg.MonitorTimeout <= 0 {
		cfg.MonitorTimeout = defaultMonitorTimeout
	}
	if cfg.WaitSlack <= 0 {
		cfg.WaitSlack = defaultWaitSlack
	}
	if strings.TrimSpace(cfg.MonitorPath) == "" {
		cfg.MonitorPath = defaultMonitorPath
	}
	if strings.TrimSpace(cfg.QueryDir) == "" {
		cfg.QueryDir = defaultQueryDir
	}
	return &Runner{sb: sb, cfg: cfg, now: time.Now}
}

// Run executes one case in the sandbox and returns its result.
func (r *Runner) Run(ctx context.Context, h sandbox.Handle, configID string, c battery.Case) TestResult {
	res := TestResult{
		CaseID:          c.ID,
		ConfigID:        configID,
		Query:           c.Query,
		ExpectedSkill:   c.ExpectedSkill,
		ActivatedSkills: []string{},
	}
	if r == nil || r.sb == nil {
		res.Error = "runner: nil sandbox client"
		return res
	}
	start := r.now()

	// A fresh file per case sidesteps shell escaping for arbitrary query
	// text and leaves no stale input behind for the next case.
	queryPath := fmt.Sprintf("%s/query-%s-%d.txt", r.cfg.QueryDir, c.ID, start.UnixNano())
	if err := r.sb.WriteFile(ctx, h, queryPath, []byte(c.Query), 0o644); err != nil {
		return r.fail(res, start, err)
	}

	// The monitor owns the hard timeout; our wait budget is padded past it
	// so the transport never gives up before the monitor kills the process.
	execCtx, cancel := context.WithTimeout(ctx, r.cfg.MonitorTimeout+r.cfg.WaitSlack)
	defer cancel()

	cmd := fmt.Sprintf("%s %s %d", r.cfg.MonitorPath, queryPath, int(r.cfg.MonitorTimeout.Seconds()))
	out, err := r.sb.Exec(execCtx, h, cmd, r.cfg.MonitorTimeout+r.cfg.WaitSlack)
	if err != nil {
		return r.fail(res, start, err)
	}
	if out.ExitCode != 0 {
		msg := strings.TrimSpace(out.Stderr)
		if msg == "" {
			msg = fmt.Sprintf("monitor exited %d", out.ExitCode)
		} else {
			msg = fmt.Sprintf("monitor exited %d: %s", out.ExitCode, msg)
		}
		return r.fail(res, start, fmt.Errorf("%s", msg))
	}

	res.LatencyMs = r.now().Sub(start).Milliseconds()
	res.ActivatedSkills = activation.Extract(out.Stdout)
	res.Activated = len(res.ActivatedSkills) > 0
	res.Correct = scoreOutcome(c, res.ActivatedSkills)
	return res
}

func (r *Runner) fail(res TestResult, start time.Time, err error) TestResult {
	res.LatencyMs = r.now().Sub(start).Milliseconds()
	res.ActivatedSkills = []string{}
	res.Activated = false
	res.Correct = false
	res.Error = err.Error()
	return res
}

// scoreOutcome applies the correctness rule: positive cases need the
// expected skill in the activation set, negative cases need the set empty.
func scoreOutcome(c battery.Case, activated []string) bool {
	if c.IsNegative() {
		return len(activated) == 0
	}
	for _, s := range activated {
		if s == c.ExpectedSkill {
			return true
		}
	}
	return false
}
