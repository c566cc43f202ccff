package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stellarlinkco/hookbench/internal/runner"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "hookbench.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sampleRun(id string) *RunRecord {
	return &RunRecord{
		ID:           id,
		StartedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt:   time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		Battery:      "baseline",
		TotalConfigs: 4,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-1")
	run.FailedConfigs = 1
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := st.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Battery != "baseline" || got.TotalConfigs != 4 || got.FailedConfigs != 1 {
		t.Fatalf("got %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Fatalf("started_at = %v, want %v", got.StartedAt, run.StartedAt)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestSaveRun_Validation(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveRun(ctx, nil); err == nil {
		t.Fatal("nil run accepted")
	}
	if err := st.SaveRun(ctx, &RunRecord{ID: " "}); err == nil {
		t.Fatal("empty id accepted")
	}
	if err := st.SaveRun(ctx, &RunRecord{ID: "r", StartedAt: time.Now()}); err == nil {
		t.Fatal("missing finished_at accepted")
	}
}

func TestConfigResults_RoundTrip(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveRun(ctx, sampleRun("run-1")); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	rec := &ConfigRecord{
		ID:             "cr-1",
		RunID:          "run-1",
		ConfigID:       "prompt-hook",
		Label:          "Prompt hook",
		TotalTests:     2,
		ActivatedCount: 1,
		CorrectCount:   1,
		ActivationRate: 0.5,
		AccuracyRate:   0.5,
		AvgLatencyMs:   1200,
		CreatedAt:      time.Date(2026, 8, 1, 12, 10, 0, 0, time.UTC),
		Results: []runner.TestResult{
			{CaseID: "base-001", ConfigID: "prompt-hook", ExpectedSkill: "svelte-runes",
				ActivatedSkills: []string{"svelte-runes"}, Activated: true, Correct: true, LatencyMs: 900},
			{CaseID: "base-002", ConfigID: "prompt-hook", ExpectedSkill: "sveltekit-forms",
				ActivatedSkills: []string{}, LatencyMs: 1500},
		},
	}
	if err := st.SaveConfigResult(ctx, rec); err != nil {
		t.Fatalf("SaveConfigResult: %v", err)
	}

	got, err := st.GetConfigResults(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetConfigResults: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	cr := got[0]
	if cr.ConfigID != "prompt-hook" || cr.ActivationRate != 0.5 {
		t.Fatalf("got %+v", cr)
	}
	if len(cr.Results) != 2 || cr.Results[0].ActivatedSkills[0] != "svelte-runes" {
		t.Fatalf("case payload lost: %+v", cr.Results)
	}
}

func TestSaveConfigResult_Validation(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	cases := []*ConfigRecord{
		nil,
		{RunID: "r", ConfigID: "c"},
		{ID: "x", ConfigID: "c"},
		{ID: "x", RunID: "r"},
	}
	for _, rec := range cases {
		if err := st.SaveConfigResult(ctx, rec); err == nil {
			t.Fatalf("record accepted: %+v", rec)
		}
	}
}

func TestListRuns_FilterAndOrder(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, battery := range []string{"baseline", "hard", "baseline"} {
		run := &RunRecord{
			ID:         []string{"run-a", "run-b", "run-c"}[i],
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
			Battery:    battery,
		}
		if err := st.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "run-c" {
		t.Fatalf("order wrong: %+v", runs)
	}

	runs, err = st.ListRuns(ctx, RunFilter{Battery: "baseline"})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("battery filter returned %d runs", len(runs))
	}

	runs, err = st.ListRuns(ctx, RunFilter{Since: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-c" {
		t.Fatalf("since filter: %+v", runs)
	}

	runs, err = st.ListRuns(ctx, RunFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("limit ignored: %d runs", len(runs))
	}
}

func TestGetConfigHistory(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		runID := []string{"run-a", "run-b", "run-c"}[i]
		run := sampleRun(runID)
		run.StartedAt = base.Add(time.Duration(i) * time.Hour)
		run.FinishedAt = run.StartedAt.Add(30 * time.Minute)
		if err := st.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
		rec := &ConfigRecord{
			ID:        "cr-" + runID,
			RunID:     runID,
			ConfigID:  "prompt-hook",
			CreatedAt: run.StartedAt,
		}
		if err := st.SaveConfigResult(ctx, rec); err != nil {
			t.Fatalf("SaveConfigResult: %v", err)
		}
	}

	hist, err := st.GetConfigHistory(ctx, "prompt-hook", 2)
	if err != nil {
		t.Fatalf("GetConfigHistory: %v", err)
	}
	if len(hist) != 2 || hist[0].RunID != "run-c" || hist[1].RunID != "run-b" {
		t.Fatalf("history = %+v", hist)
	}

	if _, err := st.GetConfigHistory(ctx, " ", 5); err == nil {
		t.Fatal("empty config id accepted")
	}
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := NewSQLiteStore("  "); err == nil {
		t.Fatal("empty path accepted")
	}
}
