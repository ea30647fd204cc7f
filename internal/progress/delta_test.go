package progress

import (
	"testing"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDelta_DiscreteCrossing(t *testing.T) {
	d, err := ComputeDelta(spoolSchedule(), map[string]WindowChange{
		"Erect": {Start: 0, End: 100},
	}, 10)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, d.Hours, 1e-9)
	assert.InDelta(t, 4.0, d.ByCategory[domain.CategoryInstall], 1e-9)
	assert.Zero(t, d.ByCategory[domain.CategoryReceive])
}

func TestComputeDelta_PartialMovement(t *testing.T) {
	sched := domain.Schedule{
		ItemType: "threaded",
		Milestones: []domain.Milestone{
			{Name: "Run Pipe", Weight: 80, Kind: domain.KindPartial, Category: domain.CategoryInstall},
			{Name: "Test", Weight: 20, Kind: domain.KindDiscrete, Category: domain.CategoryTest},
		},
	}

	d, err := ComputeDelta(sched, map[string]WindowChange{
		"Run Pipe": {Start: 25, End: 75},
	}, 10)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, d.Hours, 1e-9)
}

func TestComputeDelta_NegativeNetChangePreserved(t *testing.T) {
	// A rollback inside the window reports signed movement, not zero.
	d, err := ComputeDelta(spoolSchedule(), map[string]WindowChange{
		"Erect": {Start: 100, End: 0},
	}, 10)
	require.NoError(t, err)
	assert.InDelta(t, -4.0, d.Hours, 1e-9)
	assert.InDelta(t, -4.0, d.ByCategory[domain.CategoryInstall], 1e-9)
}

func TestComputeDelta_DiscreteSubThresholdMovementIsZero(t *testing.T) {
	// 0 -> 50 on a discrete milestone never crossed completion.
	d, err := ComputeDelta(spoolSchedule(), map[string]WindowChange{
		"Erect": {Start: 0, End: 50},
	}, 10)
	require.NoError(t, err)
	assert.Zero(t, d.Hours)
}

func TestComputeDelta_UnknownMilestoneExcluded(t *testing.T) {
	d, err := ComputeDelta(spoolSchedule(), map[string]WindowChange{
		"Hydro": {Start: 0, End: 100},
		"Erect": {Start: 0, End: 100},
	}, 10)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, d.Hours, 1e-9)
	assert.Equal(t, []string{"Hydro"}, d.Unknown)
}

func TestComputeDelta_NoChangesNoMovement(t *testing.T) {
	d, err := ComputeDelta(spoolSchedule(), nil, 10)
	require.NoError(t, err)
	assert.Zero(t, d.Hours)
	for _, cat := range domain.Categories {
		assert.Zero(t, d.ByCategory[cat])
	}
}

func TestDeltaBreakdown_Merge(t *testing.T) {
	var total DeltaBreakdown

	a, err := ComputeDelta(spoolSchedule(), map[string]WindowChange{
		"Erect": {Start: 0, End: 100},
	}, 10)
	require.NoError(t, err)
	b, err := ComputeDelta(spoolSchedule(), map[string]WindowChange{
		"Receive": {Start: 0, End: 100},
		"Erect":   {Start: 100, End: 0},
	}, 20)
	require.NoError(t, err)

	total.Merge(a)
	total.Merge(b)

	assert.InDelta(t, 4.0+1.0-8.0, total.Hours, 1e-9)
	assert.InDelta(t, 4.0-8.0, total.ByCategory[domain.CategoryInstall], 1e-9)
	assert.InDelta(t, 1.0, total.ByCategory[domain.CategoryReceive], 1e-9)
}
