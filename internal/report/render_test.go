package report

import (
	"strings"
	"testing"
)

func TestRenderComparison(t *testing.T) {
	t.Parallel()

	out := RenderComparison([]ConfigResult{
		{ConfigID: "control", TotalTests: 8, ActivatedCount: 2, CorrectCount: 2, AvgLatencyMs: 1500},
		{ConfigID: "prompt-hook", TotalTests: 8, ActivatedCount: 7, CorrectCount: 6, AvgLatencyMs: 1800},
	})

	for _, want := range []string{
		"CONFIG", "ACTIVATION", "ACCURACY",
		"control", "25.0% (2/8)",
		"prompt-hook", "87.5% (7/8)", "75.0% (6/8)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBreakdown(t *testing.T) {
	t.Parallel()

	out := RenderBreakdown(ConfigResult{
		ConfigID:       "prompt-hook",
		Label:          "Prompt hook",
		TotalTests:     4,
		ActivatedCount: 3,
		CorrectCount:   2,
		Categories: []CategoryStats{
			{ExpectedSkill: "svelte-runes", Total: 2, Correct: 2, AccuracyRate: 1},
			{ExpectedSkill: "tailwind-styling", Total: 1, Correct: 0},
		},
		Negatives: NegativeStats{Total: 1, TrueNegatives: 1},
	})

	for _, want := range []string{
		"Config: prompt-hook (Prompt hook)",
		"svelte-runes", "100.0% (2/2)",
		"tailwind-styling", "0.0% (0/1)",
		"Negatives: 1 true_negative=1 false_positive=0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCategoryBreakdown(t *testing.T) {
	t.Parallel()

	out := RenderCategoryBreakdown([]ConfigResult{
		{
			ConfigID: "control",
			Categories: []CategoryStats{
				{ExpectedSkill: "svelte-runes", Total: 2, Correct: 1},
			},
		},
		{
			ConfigID: "prompt-hook",
			Categories: []CategoryStats{
				{ExpectedSkill: "svelte-runes", Total: 2, Correct: 2},
				{ExpectedSkill: "tailwind-styling", Total: 1, Correct: 1},
			},
		},
	})

	for _, want := range []string{
		"SKILL", "control", "prompt-hook",
		"svelte-runes", "50.0% (1/2)", "100.0% (2/2)",
		"tailwind-styling", "100.0% (1/1)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	// control has no tailwind cases; its cell is a dash, not a zero rate.
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "tailwind-styling") && !strings.Contains(line, "-") {
			t.Fatalf("missing placeholder for absent category:\n%s", out)
		}
	}

	if got := RenderCategoryBreakdown(nil); got != "" {
		t.Fatalf("empty input should render nothing, got %q", got)
	}
}

func TestRenderNegativeAnalysis(t *testing.T) {
	t.Parallel()

	out := RenderNegativeAnalysis([]ConfigResult{
		{ConfigID: "control", Negatives: NegativeStats{Total: 4, TrueNegatives: 4}},
		{ConfigID: "prompt-hook", Negatives: NegativeStats{Total: 4, TrueNegatives: 3, FalsePositives: 1}},
	})

	for _, want := range []string{
		"CONFIG", "TRUE NEG", "FALSE POS",
		"control", "prompt-hook",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	if got := RenderNegativeAnalysis([]ConfigResult{{ConfigID: "control"}}); got != "" {
		t.Fatalf("no negatives should render nothing, got %q", got)
	}
}

func TestRenderDiff(t *testing.T) {
	t.Parallel()

	out := RenderDiff(Diff{
		AConfigID: "prompt-hook",
		BConfigID: "control",
		Compared:  12,
		Ties:      11,
		AWins:     1,
		AWinCases: []string{"hard-011"},
	})

	for _, want := range []string{
		"prompt-hook vs control",
		"Ties: 11",
		"prompt-hook wins: 1 (hard-011)",
		"control wins: 0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
