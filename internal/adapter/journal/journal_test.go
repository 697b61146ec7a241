package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prforge/internal/adapter/journal"
)

func setupTestJournal(t *testing.T) *journal.Journal {
	t.Helper()

	// Use in-memory database for testing
	j, err := journal.New(":memory:")
	require.NoError(t, err, "failed to create test journal")

	t.Cleanup(func() {
		j.Close()
	})

	return j
}

func TestJournal_StartSeed_GetSeed(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	seed := journal.Seed{
		SeedID:    "seed-123",
		Owner:     "octocat",
		Repo:      "demo",
		StartedAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, j.StartSeed(ctx, seed))

	got, err := j.GetSeed(ctx, "seed-123")
	require.NoError(t, err)
	assert.Equal(t, seed.SeedID, got.SeedID)
	assert.Equal(t, seed.Owner, got.Owner)
	assert.Equal(t, seed.Repo, got.Repo)
	assert.Equal(t, 0, got.PullNumber)
	assert.Equal(t, seed.StartedAt.Unix(), got.StartedAt.Unix())
}

func TestJournal_GetSeed_NotFound(t *testing.T) {
	j := setupTestJournal(t)

	_, err := j.GetSeed(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed not found")
}

func TestJournal_SetPullNumber(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.StartSeed(ctx, journal.Seed{
		SeedID: "seed-123", Owner: "octocat", Repo: "demo", StartedAt: time.Now(),
	}))

	require.NoError(t, j.SetPullNumber(ctx, "seed-123", 7))

	seed, err := j.GetSeed(ctx, "seed-123")
	require.NoError(t, err)
	assert.Equal(t, 7, seed.PullNumber)
}

func TestJournal_SetPullNumber_UnknownSeed(t *testing.T) {
	j := setupTestJournal(t)

	err := j.SetPullNumber(context.Background(), "missing", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed not found")
}

func TestJournal_RecordEvent_SequencesAreMonotonic(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.StartSeed(ctx, journal.Seed{
		SeedID: "seed-123", Owner: "octocat", Repo: "demo", StartedAt: time.Now(),
	}))

	kinds := []string{journal.EventBlob, journal.EventTree, journal.EventCommit, journal.EventRef}
	var lastSeq int64
	for i, kind := range kinds {
		seq, err := j.RecordEvent(ctx, "seed-123", kind, "object-"+kind)
		require.NoError(t, err)
		if i > 0 {
			assert.Greater(t, seq, lastSeq, "sequence numbers must strictly increase")
		}
		lastSeq = seq
	}
}

func TestJournal_ListEvents_InSequenceOrder(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.StartSeed(ctx, journal.Seed{
		SeedID: "seed-123", Owner: "octocat", Repo: "demo", StartedAt: time.Now(),
	}))

	_, err := j.RecordEvent(ctx, "seed-123", journal.EventBlob, "blob-sha")
	require.NoError(t, err)
	_, err = j.RecordEvent(ctx, "seed-123", journal.EventTree, "tree-sha")
	require.NoError(t, err)
	_, err = j.RecordEvent(ctx, "seed-123", journal.EventCommit, "commit-sha")
	require.NoError(t, err)

	events, err := j.ListEvents(ctx, "seed-123")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, journal.EventBlob, events[0].Kind)
	assert.Equal(t, journal.EventTree, events[1].Kind)
	assert.Equal(t, journal.EventCommit, events[2].Kind)
	assert.Less(t, events[0].Sequence, events[1].Sequence)
	assert.Less(t, events[1].Sequence, events[2].Sequence)
}

func TestJournal_ListEvents_EmptySeed(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.StartSeed(ctx, journal.Seed{
		SeedID: "seed-123", Owner: "octocat", Repo: "demo", StartedAt: time.Now(),
	}))

	events, err := j.ListEvents(ctx, "seed-123")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestJournal_EventsIsolatedBySeed(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	for _, id := range []string{"seed-a", "seed-b"} {
		require.NoError(t, j.StartSeed(ctx, journal.Seed{
			SeedID: id, Owner: "octocat", Repo: "demo", StartedAt: time.Now(),
		}))
	}

	_, err := j.RecordEvent(ctx, "seed-a", journal.EventBlob, "a-blob")
	require.NoError(t, err)
	_, err = j.RecordEvent(ctx, "seed-b", journal.EventBlob, "b-blob")
	require.NoError(t, err)

	eventsA, err := j.ListEvents(ctx, "seed-a")
	require.NoError(t, err)
	require.Len(t, eventsA, 1)
	assert.Equal(t, "a-blob", eventsA[0].ObjectID)
}
