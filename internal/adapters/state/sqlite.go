// Package state persists investigation runs. Persistence is best-effort
// observability: the orchestrator treats every store failure as non-fatal.
package state

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// defaultListLimit caps history listings when the caller passes no limit.
const defaultListLimit = 50

// SQLiteStore implements core.RunStore with SQLite storage.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the run-history database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	// WAL mode keeps concurrent serve-mode reads cheap.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(migrationV1)
	return err
}

// SaveRun persists a completed result. Last write wins per run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, result *core.CouncilResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return core.ErrState(core.CodeStoreUnavailable, "serializing result").WithCause(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, query, mode, severity, confidence, rounds, partial, created_at, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			query=excluded.query, mode=excluded.mode, severity=excluded.severity,
			confidence=excluded.confidence, rounds=excluded.rounds,
			partial=excluded.partial, result_json=excluded.result_json`,
		result.RunID, result.Query, result.Mode.String(), string(result.OverallSeverity),
		result.OverallConfidence, result.Rounds, boolToInt(result.Partial),
		result.StartedAt.UTC(), string(payload))
	if err != nil {
		return core.ErrState(core.CodeStoreUnavailable, "persisting run").WithCause(err)
	}
	return nil
}

// ListRuns returns summaries of stored runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]core.RunSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, query, mode, severity, confidence, rounds, partial, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, core.ErrState(core.CodeStoreUnavailable, "listing runs").WithCause(err)
	}
	defer rows.Close()

	var summaries []core.RunSummary
	for rows.Next() {
		var (
			sum       core.RunSummary
			mode      string
			severity  string
			partial   int
			createdAt time.Time
		)
		if err := rows.Scan(&sum.RunID, &sum.Query, &mode, &severity,
			&sum.OverallConfidence, &sum.Rounds, &partial, &createdAt); err != nil {
			return nil, core.ErrState(core.CodeStoreUnavailable, "scanning run row").WithCause(err)
		}
		sum.Mode = core.Mode(mode)
		sum.OverallSeverity = core.Severity(severity)
		sum.Partial = partial != 0
		sum.CreatedAt = createdAt
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, core.ErrState(core.CodeStoreUnavailable, "iterating run rows").WithCause(err)
	}
	return summaries, nil
}

// LoadRun retrieves a full result by run ID.
func (s *SQLiteStore) LoadRun(ctx context.Context, runID string) (*core.CouncilResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT result_json FROM runs WHERE run_id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound("run", runID)
	}
	if err != nil {
		return nil, core.ErrState(core.CodeStoreUnavailable, "loading run").WithCause(err)
	}

	var result core.CouncilResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, core.ErrState(core.CodeStoreUnavailable, "deserializing run").WithCause(err)
	}
	return &result, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
