package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/stellarlinkco/hookbench/internal/store"
)

// SaveOutcome persists an experiment outcome as one run record plus one
// config record per aggregated configuration.
func SaveOutcome(ctx context.Context, writer store.RunWriter, batteryName string, out *Outcome) (*store.RunRecord, error) {
	if writer == nil {
		return nil, errors.New("app: missing store")
	}
	if out == nil {
		return nil, errors.New("app: nil outcome")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runID, err := newRunID()
	if err != nil {
		return nil, fmt.Errorf("app: generate run id: %w", err)
	}

	runRecord := &store.RunRecord{
		ID:            runID,
		StartedAt:     out.StartedAt,
		FinishedAt:    out.FinishedAt,
		Battery:       batteryName,
		TotalConfigs:  len(out.Results) + len(out.FailedConfigs),
		FailedConfigs: len(out.FailedConfigs),
	}
	if err := writer.SaveRun(ctx, runRecord); err != nil {
		return nil, fmt.Errorf("app: save run: %w", err)
	}

	for i, cr := range out.Results {
		rec := &store.ConfigRecord{
			ID:             fmt.Sprintf("%s_cfg_%d", runID, i+1),
			RunID:          runID,
			ConfigID:       cr.ConfigID,
			Label:          cr.Label,
			TotalTests:     cr.TotalTests,
			ActivatedCount: cr.ActivatedCount,
			CorrectCount:   cr.CorrectCount,
			ErrorCount:     cr.ErrorCount,
			ActivationRate: cr.ActivationRate,
			AccuracyRate:   cr.AccuracyRate,
			AvgLatencyMs:   cr.AvgLatencyMs,
			CreatedAt:      out.FinishedAt,
			Results:        cr.Results,
		}
		if err := writer.SaveConfigResult(ctx, rec); err != nil {
			return nil, fmt.Errorf("app: save config result: %w", err)
		}
	}

	return runRecord, nil
}

func newRunID() (string, error) {
	var buf [8]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("run_%s_%x", time.Now().UTC().Format("20060102T150405Z"), buf), nil
}
