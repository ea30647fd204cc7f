package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollupRepo_UpsertOverwrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteRollupRepo(database)
	ctx := context.Background()

	row := domain.RollupRow{
		ProjectID:      "p1",
		Dimension:      domain.DimensionArea,
		DimensionValue: "A-100",
		BudgetedHours:  50,
		EarnedHours:    10,
		ItemCount:      5,
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(ctx, row))

	row.EarnedHours = 22.5
	require.NoError(t, repo.Upsert(ctx, row))

	fetched, err := repo.Get(ctx, "p1", domain.DimensionArea, "A-100")
	require.NoError(t, err)
	assert.InDelta(t, 22.5, fetched.EarnedHours, 1e-9)
	assert.InDelta(t, 45.0, fetched.PercentComplete(), 1e-9)
}

func TestRollupRepo_ListByDimension(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteRollupRepo(database)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, v := range []string{"A-200", "A-100"} {
		require.NoError(t, repo.Upsert(ctx, domain.RollupRow{
			ProjectID: "p1", Dimension: domain.DimensionArea, DimensionValue: v, UpdatedAt: now,
		}))
	}
	require.NoError(t, repo.Upsert(ctx, domain.RollupRow{
		ProjectID: "p1", Dimension: domain.DimensionSystem, DimensionValue: "CW", UpdatedAt: now,
	}))

	rows, err := repo.ListByDimension(ctx, "p1", domain.DimensionArea)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-100", rows[0].DimensionValue)
	assert.Equal(t, "A-200", rows[1].DimensionValue)
}

func TestRollupRepo_DeleteByProject(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteRollupRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, domain.RollupRow{
		ProjectID: "p1", Dimension: domain.DimensionArea, DimensionValue: "A-100", UpdatedAt: time.Now(),
	}))
	require.NoError(t, repo.DeleteByProject(ctx, "p1"))

	_, err := repo.Get(ctx, "p1", domain.DimensionArea, "A-100")
	require.ErrorIs(t, err, ErrNotFound)
}
