package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "council.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(runID string, startedAt time.Time) *core.CouncilResult {
	return &core.CouncilResult{
		RunID: runID,
		Query: "why is checkout slow",
		Mode:  core.ModeStandard,
		Panels: []core.PanelFinding{
			{PanelName: "trace", Summary: "latency doubled", Severity: core.SeverityWarning, Confidence: 0.8},
		},
		Synthesis:         "latency regression after deploy",
		OverallSeverity:   core.SeverityWarning,
		OverallConfidence: 0.8,
		Rounds:            1,
		StartedAt:         startedAt,
		CompletedAt:       startedAt.Add(3 * time.Second),
	}
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	saved := sampleResult("run-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.SaveRun(ctx, saved))

	loaded, err := store.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, saved.RunID, loaded.RunID)
	assert.Equal(t, saved.Query, loaded.Query)
	assert.Equal(t, saved.OverallSeverity, loaded.OverallSeverity)
	assert.Len(t, loaded.Panels, 1)
	assert.Equal(t, "trace", loaded.Panels[0].PanelName)
}

func TestSQLiteStore_LoadMissingRun(t *testing.T) {
	store := testStore(t)

	_, err := store.LoadRun(context.Background(), "nope")
	var derr *core.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, core.ErrCatNotFound, derr.Category)
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, store.SaveRun(ctx, sampleResult(id, base.Add(time.Duration(i)*time.Minute))))
	}

	summaries, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "run-c", summaries[0].RunID)
	assert.Equal(t, "run-b", summaries[1].RunID)
}

func TestSQLiteStore_SaveIsIdempotentPerRunID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	first := sampleResult("run-1", base)
	require.NoError(t, store.SaveRun(ctx, first))

	updated := sampleResult("run-1", base)
	updated.OverallSeverity = core.SeverityCritical
	require.NoError(t, store.SaveRun(ctx, updated))

	summaries, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, core.SeverityCritical, summaries[0].OverallSeverity)
}

func TestExportResult_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult("run-1", time.Now().UTC().Truncate(time.Second))

	require.NoError(t, ExportResult(dir, result))

	loaded, err := LoadExportedResult(dir)
	require.NoError(t, err)
	assert.Equal(t, result.RunID, loaded.RunID)
	assert.Equal(t, result.Synthesis, loaded.Synthesis)
}
