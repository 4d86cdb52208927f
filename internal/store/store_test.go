// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "ranking.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRunAndReload(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	records := []types.AuthorRecord{
		{ScholarID: "abc", Name: "Uno", HIndex: 12, Citations: 340, Interests: []string{"sociology"}},
		{OpenAlexID: "https://openalex.org/A1", Name: "Dos", HIndex: 8},
	}
	failures := []types.FailureEntry{
		{Identifier: "xyz", Name: "Tres", LastError: "giving up after 3 attempts: HTTP 429"},
	}

	runID, err := s.SaveRun(ctx, "scholar", started, records, failures)
	require.NoError(t, err)
	require.Positive(t, runID)

	info, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, runID, info.ID)
	assert.Equal(t, "scholar", info.Source)
	assert.Equal(t, started, info.StartedAt)
	assert.Equal(t, 2, info.RecordCount)
	assert.Equal(t, 1, info.FailureCount)

	loaded, err := s.Records(ctx, runID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	byID := map[string]types.AuthorRecord{}
	for _, r := range loaded {
		byID[r.ID()] = r
	}
	assert.Equal(t, records[0], byID["abc"])
	assert.Equal(t, "Dos", byID["https://openalex.org/A1"].Name)

	storedFailures, err := s.Failures(ctx, runID)
	require.NoError(t, err)
	require.Len(t, storedFailures, 1)
	assert.Equal(t, failures[0], storedFailures[0])
}

func TestLatestRunPicksNewest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, "scholar", time.Now(), nil, nil)
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, "openalex", time.Now(), nil, nil)
	require.NoError(t, err)

	info, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, info.ID)
	assert.Equal(t, "openalex", info.Source)
}

func TestLatestRunEmpty(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LatestRun(context.Background())
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestRunMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Run(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestDuplicateIdentifierKeepsFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []types.AuthorRecord{
		{ScholarID: "dup", Name: "First"},
		{ScholarID: "dup", Name: "Second"},
	}
	runID, err := s.SaveRun(ctx, "scholar", time.Now(), records, nil)
	require.NoError(t, err)

	loaded, err := s.Records(ctx, runID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "First", loaded[0].Name)
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(ctx, "scholar", time.Now(), nil, nil)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
}
