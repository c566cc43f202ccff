// Package report folds raw test results into per-configuration summaries
// and renders them for comparison.
package report

import "github.com/stellarlinkco/hookbench/internal/runner"

// ConfigResult is the aggregate view of one configuration's battery run.
type ConfigResult struct {
	ConfigID       string              `json:"config_id"`
	Label          string              `json:"label"`
	TotalTests     int                 `json:"total_tests"`
	ActivatedCount int                 `json:"activated_count"`
	CorrectCount   int                 `json:"correct_count"`
	ErrorCount     int                 `json:"error_count"`
	ActivationRate float64             `json:"activation_rate"`
	AccuracyRate   float64             `json:"accuracy_rate"`
	AvgLatencyMs   int64               `json:"avg_latency_ms"`
	Categories     []CategoryStats     `json:"categories"`
	Negatives      NegativeStats       `json:"negatives"`
	Results        []runner.TestResult `json:"results"`
}

// CategoryStats groups positive cases by the skill they expect.
type CategoryStats struct {
	ExpectedSkill string  `json:"expected_skill"`
	Total         int     `json:"total"`
	Correct       int     `json:"correct"`
	AccuracyRate  float64 `json:"accuracy_rate"`
}

// NegativeStats summarizes the cases that expect no activation at all.
type NegativeStats struct {
	Total          int `json:"total"`
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
}

// Diff is a paired head-to-head comparison of two configurations over the
// case ids they share.
type Diff struct {
	AConfigID string   `json:"a_config_id"`
	BConfigID string   `json:"b_config_id"`
	Compared  int      `json:"compared"`
	Ties      int      `json:"ties"`
	AWins     int      `json:"a_wins"`
	BWins     int      `json:"b_wins"`
	AWinCases []string `json:"a_win_cases,omitempty"`
	BWinCases []string `json:"b_win_cases,omitempty"`
	Skipped   []string `json:"skipped,omitempty"`
}
