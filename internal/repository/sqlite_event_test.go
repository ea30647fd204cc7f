package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mhollis/spooltally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventFixtures(t *testing.T) (*SQLiteEventRepo, string, context.Context) {
	t.Helper()
	database := testutil.NewTestDB(t)
	items := NewSQLiteItemRepo(database)
	item := testutil.NewTestItem("p1", "spool")
	require.NoError(t, items.Create(context.Background(), item))
	return NewSQLiteEventRepo(database), item.ID, context.Background()
}

func TestEventRepo_AppendAndListInOrder(t *testing.T) {
	repo, itemID, ctx := eventFixtures(t)

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	// Same timestamp on purpose: seq must break the tie in write order.
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Erect", 0, 100, base)))
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Erect", 100, 0, base)))
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Connect", 0, 100, base.Add(time.Hour))))

	events, err := repo.ListByItem(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.InDelta(t, 100.0, events[0].NewValue, 1e-9)
	assert.InDelta(t, 0.0, events[1].NewValue, 1e-9)
	assert.Equal(t, "Connect", events[2].Milestone)
}

func TestEventRepo_WindowIsHalfOpen(t *testing.T) {
	repo, itemID, ctx := eventFixtures(t)

	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Receive", 0, 100, day(1))))
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Erect", 0, 100, day(5))))
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Connect", 0, 100, day(9))))

	// [day(5), day(9)) includes the start bound and excludes the end bound.
	events, err := repo.ListByItemInWindow(ctx, itemID, day(5), day(9))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Erect", events[0].Milestone)
}

func TestEventRepo_SubSecondWindowBounds(t *testing.T) {
	repo, itemID, ctx := eventFixtures(t)

	base := time.Date(2026, 3, 10, 8, 0, 0, 250_000_000, time.UTC)
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Erect", 0, 100, base)))

	// Text comparison on the stored column must respect fractional seconds.
	events, err := repo.ListByItemInWindow(ctx, itemID, base, base.Add(time.Millisecond))
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = repo.ListByItemInWindow(ctx, itemID, base.Add(time.Millisecond), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventRepo_ListUntil(t *testing.T) {
	repo, itemID, ctx := eventFixtures(t)

	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Receive", 0, 100, day(1))))
	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Erect", 0, 100, day(5))))

	events, err := repo.ListByItemUntil(ctx, itemID, day(5))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Receive", events[0].Milestone)
}

func TestEventRepo_CountByItem(t *testing.T) {
	repo, itemID, ctx := eventFixtures(t)

	count, err := repo.CountByItem(ctx, itemID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Append(ctx, testutil.NewTestEvent(itemID, "Erect", 0, 100, time.Now())))
	count, err = repo.CountByItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEventRepo_RoundTripFields(t *testing.T) {
	repo, itemID, ctx := eventFixtures(t)

	at := time.Date(2026, 3, 10, 8, 30, 15, 123_456_789, time.UTC)
	e := testutil.NewTestEvent(itemID, "Punch", 100, 0, at)
	e.Correction = true
	e.Note = "double-entered by night shift"
	require.NoError(t, repo.Append(ctx, e))

	events, err := repo.ListByItem(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	got := events[0]
	assert.True(t, got.Correction)
	assert.Equal(t, "double-entered by night shift", got.Note)
	assert.Equal(t, "tester", got.Actor)
	assert.True(t, got.RecordedAt.Equal(at))
}
