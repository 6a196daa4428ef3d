package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "history", "history.db")
	require.NoError(t, Migrate(path))
	return path
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := newTestDatabase(t)
	assert.NoError(t, Migrate(path))
}

func TestRecordAndGetRuns(t *testing.T) {
	ctx := context.Background()
	path := newTestDatabase(t)

	writer, err := NewWriter(path)
	require.NoError(t, err)
	defer writer.Close()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	runs := []models.FetchRun{
		{Feed: "following", Resolved: "following", Minutes: 60, PostCount: 12, FetchedAt: base},
		{Feed: "cats", Resolved: "at://cats", Minutes: 30, PostCount: 3, FetchedAt: base.Add(time.Minute)},
		{Feed: "following", Resolved: "following", Minutes: 15, PostCount: 0, FetchedAt: base.Add(2 * time.Minute)},
	}
	for _, run := range runs {
		recorded, err := writer.RecordRun(ctx, run)
		require.NoError(t, err)
		assert.NotEmpty(t, recorded.Id)
	}

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	all, err := reader.GetRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 15, all[0].Minutes)
	assert.Equal(t, "cats", all[1].Feed)
	assert.Equal(t, "at://cats", all[1].Resolved)
	assert.Equal(t, 3, all[1].PostCount)
	assert.True(t, base.Add(time.Minute).Equal(all[1].FetchedAt))
	assert.Equal(t, 12, all[2].PostCount)

	following, err := reader.GetRuns(ctx, "following", 1)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, 15, following[0].Minutes)

	none, err := reader.GetRuns(ctx, "dogs", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordRunKeepsGivenId(t *testing.T) {
	path := newTestDatabase(t)
	writer, err := NewWriter(path)
	require.NoError(t, err)
	defer writer.Close()

	run, err := writer.RecordRun(context.Background(), models.FetchRun{Id: "fixed", Feed: "following", Resolved: "following"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", run.Id)
	assert.False(t, run.FetchedAt.IsZero())

	_, err = writer.RecordRun(context.Background(), models.FetchRun{Id: "fixed", Feed: "following", Resolved: "following"})
	assert.Error(t, err)
}

func TestTidy(t *testing.T) {
	ctx := context.Background()
	path := newTestDatabase(t)

	writer, err := NewWriter(path)
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = writer.RecordRun(ctx, models.FetchRun{Feed: "old", Resolved: "old", FetchedAt: now.Add(-100 * 24 * time.Hour)})
	require.NoError(t, err)
	_, err = writer.RecordRun(ctx, models.FetchRun{Feed: "new", Resolved: "new", FetchedAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	removed, err := Tidy(ctx, path, DefaultRetention)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	runs, err := reader.GetRuns(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].Feed)
}

func TestRollback(t *testing.T) {
	ctx := context.Background()
	path := newTestDatabase(t)
	require.NoError(t, Rollback(path))

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.GetRuns(ctx, "", 1)
	assert.Error(t, err)
}
