package report

import (
	"math"
	"sort"

	"github.com/stellarlinkco/hookbench/internal/battery"
	"github.com/stellarlinkco/hookbench/internal/hookcfg"
	"github.com/stellarlinkco/hookbench/internal/runner"
)

// Aggregate folds per-case results into one ConfigResult. It is a pure
// function of its inputs; an empty result slice yields zero rates, never
// NaN.
func Aggregate(cfg hookcfg.Config, results []runner.TestResult) ConfigResult {
	out := ConfigResult{
		ConfigID:   cfg.ID,
		Label:      cfg.Label,
		TotalTests: len(results),
		Categories: []CategoryStats{},
		Results:    results,
	}

	bySkill := make(map[string]*CategoryStats)
	var latencySum int64
	for _, r := range results {
		latencySum += r.LatencyMs
		if r.Activated {
			out.ActivatedCount++
		}
		if r.Correct {
			out.CorrectCount++
		}
		if r.Error != "" {
			out.ErrorCount++
		}

		if r.ExpectedSkill == battery.ExpectNone {
			out.Negatives.Total++
			if r.Activated {
				out.Negatives.FalsePositives++
			} else {
				out.Negatives.TrueNegatives++
			}
			continue
		}

		cs := bySkill[r.ExpectedSkill]
		if cs == nil {
			cs = &CategoryStats{ExpectedSkill: r.ExpectedSkill}
			bySkill[r.ExpectedSkill] = cs
		}
		cs.Total++
		if r.Correct {
			cs.Correct++
		}
	}

	if out.TotalTests > 0 {
		out.ActivationRate = float64(out.ActivatedCount) / float64(out.TotalTests)
		out.AccuracyRate = float64(out.CorrectCount) / float64(out.TotalTests)
		out.AvgLatencyMs = int64(math.Round(float64(latencySum) / float64(out.TotalTests)))
	}

	for _, cs := range bySkill {
		if cs.Total > 0 {
			cs.AccuracyRate = float64(cs.Correct) / float64(cs.Total)
		}
		out.Categories = append(out.Categories, *cs)
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		return out.Categories[i].ExpectedSkill < out.Categories[j].ExpectedSkill
	})

	return out
}
