package service

import (
	"testing"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_CreateComputesCachedFigures(t *testing.T) {
	env, ctx := newTestEnv(t)

	item := testutil.NewTestItem("p1", "spool", testutil.WithArea("A-100"))
	item.Milestones = map[string]float64{"Receive": 100, "Erect": 100}
	require.NoError(t, env.items.Create(ctx, item))

	got, err := env.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 45.0, got.PercentComplete, 1e-9)
	assert.InDelta(t, 4.5, got.EarnedHours, 1e-9)
}

func TestItemService_CreateRejectsUnknownType(t *testing.T) {
	env, ctx := newTestEnv(t)

	item := testutil.NewTestItem("p1", "gasket")
	err := env.items.Create(ctx, item)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown item type")
}

func TestItemService_CreateRequiresDefaultSchedule(t *testing.T) {
	env, ctx := newTestEnv(t)

	// "valve" is a valid type but newTestEnv seeds no default for it.
	item := testutil.NewTestItem("p1", "valve")
	err := env.items.Create(ctx, item)
	require.Error(t, err)
}

func TestItemService_CreateSeedsRollups(t *testing.T) {
	env, ctx := newTestEnv(t)

	item := testutil.NewTestItem("p1", "spool", testutil.WithArea("A-100"), testutil.WithBudget(25))
	require.NoError(t, env.items.Create(ctx, item))

	row, err := env.rollupRepo.Get(ctx, "p1", domain.DimensionArea, "A-100")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, row.BudgetedHours, 1e-9)
	assert.Equal(t, 1, row.ItemCount)
}

func TestItemService_GetByTag(t *testing.T) {
	env, ctx := newTestEnv(t)

	item := testutil.NewTestItem("p1", "spool", testutil.WithTag("SP-1042"))
	require.NoError(t, env.items.Create(ctx, item))

	got, err := env.items.GetByTag(ctx, "p1", "SP-1042")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)

	_, err = env.items.GetByTag(ctx, "p2", "SP-1042")
	assert.True(t, isNotFound(err))
}

func TestItemService_RetireDropsFromRollups(t *testing.T) {
	env, ctx := newTestEnv(t)

	keep := testutil.NewTestItem("p1", "spool", testutil.WithArea("A-100"), testutil.WithBudget(10))
	gone := testutil.NewTestItem("p1", "spool", testutil.WithArea("A-100"), testutil.WithBudget(30))
	require.NoError(t, env.items.Create(ctx, keep))
	require.NoError(t, env.items.Create(ctx, gone))

	require.NoError(t, env.items.Retire(ctx, gone.ID))

	row, err := env.rollupRepo.Get(ctx, "p1", domain.DimensionArea, "A-100")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, row.BudgetedHours, 1e-9)
	assert.Equal(t, 1, row.ItemCount)

	active, err := env.items.ListByProject(ctx, "p1", false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := env.items.ListByProject(ctx, "p1", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestItemService_ProgressBreakdown(t *testing.T) {
	env, ctx := newTestEnv(t)

	item := testutil.NewTestItem("p1", "spool")
	item.Milestones = map[string]float64{"Receive": 100, "Erect": 100}
	require.NoError(t, env.items.Create(ctx, item))

	b, err := env.items.Progress(ctx, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 45.0, b.Percent, 1e-9)
	assert.InDelta(t, 0.5, b.ByCategory[domain.CategoryReceive], 1e-9)
	assert.InDelta(t, 4.0, b.ByCategory[domain.CategoryInstall], 1e-9)
}
