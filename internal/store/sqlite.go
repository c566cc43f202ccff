package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/hookbench/internal/runner"
)

const defaultHistoryLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt     *sql.Stmt
	insertConfigStmt  *sql.Stmt
	getRunStmt        *sql.Stmt
	configsByRunStmt  *sql.Stmt
	configHistoryStmt *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			battery TEXT NOT NULL,
			total_configs INTEGER NOT NULL,
			failed_configs INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS config_results (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			config_id TEXT NOT NULL,
			label TEXT NOT NULL,
			total_tests INTEGER NOT NULL,
			activated_count INTEGER NOT NULL,
			correct_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			activation_rate REAL NOT NULL,
			accuracy_rate REAL NOT NULL,
			avg_latency_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			results BLOB NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_config_results_run_id ON config_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_config_results_config ON config_results(config_id)`,
		`CREATE INDEX IF NOT EXISTS idx_config_results_created_at ON config_results(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.insertRunStmt,
			query: `
				INSERT INTO runs (
					id, started_at, finished_at, battery, total_configs, failed_configs
				) VALUES (?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert run: %w",
		},
		{
			dst: &s.insertConfigStmt,
			query: `
				INSERT INTO config_results (
					id, run_id, config_id, label, total_tests, activated_count, correct_count,
					error_count, activation_rate, accuracy_rate, avg_latency_ms, created_at, results
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert config result: %w",
		},
		{
			dst: &s.getRunStmt,
			query: `
				SELECT id, started_at, finished_at, battery, total_configs, failed_configs
				FROM runs WHERE id = ?
			`,
			errFmt: "store: prepare get run: %w",
		},
		{
			dst: &s.configsByRunStmt,
			query: `
				SELECT id, run_id, config_id, label, total_tests, activated_count, correct_count,
					error_count, activation_rate, accuracy_rate, avg_latency_ms, created_at, results
				FROM config_results
				WHERE run_id = ?
				ORDER BY created_at ASC, config_id ASC
			`,
			errFmt: "store: prepare get config results: %w",
		},
		{
			dst: &s.configHistoryStmt,
			query: `
				SELECT id, run_id, config_id, label, total_tests, activated_count, correct_count,
					error_count, activation_rate, accuracy_rate, avg_latency_ms, created_at, results
				FROM config_results
				WHERE config_id = ?
				ORDER BY created_at DESC
				LIMIT ?
			`,
			errFmt: "store: prepare config history: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	stmts := []*sql.Stmt{
		s.insertRunStmt,
		s.insertConfigStmt,
		s.getRunStmt,
		s.configsByRunStmt,
		s.configHistoryStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun persists a run summary.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if run == nil {
		return errors.New("store: nil run")
	}

	id := strings.TrimSpace(run.ID)
	if id == "" {
		return errors.New("store: empty run id")
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		return errors.New("store: missing run timestamps")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin run tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := tx.StmtContext(ctx, s.insertRunStmt)
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		id,
		run.StartedAt.UTC().UnixMilli(),
		run.FinishedAt.UTC().UnixMilli(),
		run.Battery,
		run.TotalConfigs,
		run.FailedConfigs,
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run: %w", err)
	}
	return nil
}

// SaveConfigResult persists one configuration's aggregate outcome.
func (s *SQLiteStore) SaveConfigResult(ctx context.Context, result *ConfigRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if result == nil {
		return errors.New("store: nil config result")
	}

	id := strings.TrimSpace(result.ID)
	if id == "" {
		return errors.New("store: empty config result id")
	}
	if strings.TrimSpace(result.RunID) == "" {
		return errors.New("store: empty run id")
	}
	if strings.TrimSpace(result.ConfigID) == "" {
		return errors.New("store: empty config id")
	}

	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	resultsJSON, err := json.Marshal(result.Results)
	if err != nil {
		return fmt.Errorf("store: marshal test results: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin config tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := tx.StmtContext(ctx, s.insertConfigStmt)
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		id,
		result.RunID,
		result.ConfigID,
		result.Label,
		result.TotalTests,
		result.ActivatedCount,
		result.CorrectCount,
		result.ErrorCount,
		result.ActivationRate,
		result.AccuracyRate,
		result.AvgLatencyMs,
		createdAt.UTC().UnixMilli(),
		resultsJSON,
	)
	if err != nil {
		return fmt.Errorf("store: insert config result: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit config result: %w", err)
	}
	return nil
}

// GetRun loads a run by id.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty run id")
	}

	row := s.getRunStmt.QueryRowContext(ctx, id)
	var (
		runID         string
		startedAtMS   int64
		finishedAtMS  int64
		battery       string
		totalConfigs  int
		failedConfigs int
	)
	if err := row.Scan(&runID, &startedAtMS, &finishedAtMS, &battery, &totalConfigs, &failedConfigs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: get run: %w", err)
	}

	return &RunRecord{
		ID:            runID,
		StartedAt:     time.UnixMilli(startedAtMS).UTC(),
		FinishedAt:    time.UnixMilli(finishedAtMS).UTC(),
		Battery:       battery,
		TotalConfigs:  totalConfigs,
		FailedConfigs: failedConfigs,
	}, nil
}

// ListRuns returns runs matching the filter, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	battery := strings.TrimSpace(filter.Battery)
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, started_at, finished_at, battery, total_configs, failed_configs FROM runs WHERE 1=1`)

	var args []any
	if battery != "" {
		sb.WriteString(` AND battery = ?`)
		args = append(args, battery)
	}
	if !filter.Since.IsZero() {
		sb.WriteString(` AND started_at >= ?`)
		args = append(args, filter.Since.UTC().UnixMilli())
	}
	if !filter.Until.IsZero() {
		sb.WriteString(` AND started_at <= ?`)
		args = append(args, filter.Until.UTC().UnixMilli())
	}
	sb.WriteString(` ORDER BY started_at DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()
	return scanRunRows(rows)
}

func scanRunRows(rows *sql.Rows) ([]*RunRecord, error) {
	var out []*RunRecord
	for rows.Next() {
		var (
			runID         string
			startedAtMS   int64
			finishedAtMS  int64
			battery       string
			totalConfigs  int
			failedConfigs int
		)
		if err := rows.Scan(&runID, &startedAtMS, &finishedAtMS, &battery, &totalConfigs, &failedConfigs); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, &RunRecord{
			ID:            runID,
			StartedAt:     time.UnixMilli(startedAtMS).UTC(),
			FinishedAt:    time.UnixMilli(finishedAtMS).UTC(),
			Battery:       battery,
			TotalConfigs:  totalConfigs,
			FailedConfigs: failedConfigs,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}

// GetConfigResults lists config results for a run.
func (s *SQLiteStore) GetConfigResults(ctx context.Context, runID string) ([]*ConfigRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, errors.New("store: empty run id")
	}

	rows, err := s.configsByRunStmt.QueryContext(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("store: get config results: %w", err)
	}
	defer rows.Close()

	return scanConfigRows(rows)
}

// GetConfigHistory returns recent results for one configuration across runs.
func (s *SQLiteStore) GetConfigHistory(ctx context.Context, configID string, limit int) ([]*ConfigRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	configID = strings.TrimSpace(configID)
	if configID == "" {
		return nil, errors.New("store: empty config id")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := s.configHistoryStmt.QueryContext(ctx, configID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: config history: %w", err)
	}
	defer rows.Close()

	return scanConfigRows(rows)
}

func scanConfigRows(rows *sql.Rows) ([]*ConfigRecord, error) {
	var out []*ConfigRecord
	for rows.Next() {
		var (
			id             string
			runID          string
			configID       string
			label          string
			totalTests     int
			activatedCount int
			correctCount   int
			errorCount     int
			activationRate float64
			accuracyRate   float64
			avgLatencyMs   int64
			createdAtMS    int64
			resultsJSON    []byte
		)
		if err := rows.Scan(
			&id,
			&runID,
			&configID,
			&label,
			&totalTests,
			&activatedCount,
			&correctCount,
			&errorCount,
			&activationRate,
			&accuracyRate,
			&avgLatencyMs,
			&createdAtMS,
			&resultsJSON,
		); err != nil {
			return nil, fmt.Errorf("store: scan config result: %w", err)
		}

		results, err := decodeResults(resultsJSON)
		if err != nil {
			return nil, fmt.Errorf("store: decode test results: %w", err)
		}

		out = append(out, &ConfigRecord{
			ID:             id,
			RunID:          runID,
			ConfigID:       configID,
			Label:          label,
			TotalTests:     totalTests,
			ActivatedCount: activatedCount,
			CorrectCount:   correctCount,
			ErrorCount:     errorCount,
			ActivationRate: activationRate,
			AccuracyRate:   accuracyRate,
			AvgLatencyMs:   avgLatencyMs,
			CreatedAt:      time.UnixMilli(createdAtMS).UTC(),
			Results:        results,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan config rows: %w", err)
	}
	return out, nil
}

func decodeResults(resultsJSON []byte) ([]runner.TestResult, error) {
	if len(resultsJSON) == 0 {
		return nil, nil
	}
	var out []runner.TestResult
	if err := json.Unmarshal(resultsJSON, &out); err != nil {
		return nil, err
	}
	return out, nil
}
