package progress

import (
	"testing"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spoolSchedule is the stock six-milestone pipe spool schedule.
func spoolSchedule() domain.Schedule {
	return domain.Schedule{
		ItemType: "spool",
		Milestones: []domain.Milestone{
			{Name: "Receive", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryReceive},
			{Name: "Erect", Weight: 40, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
			{Name: "Connect", Weight: 40, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
			{Name: "Punch", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryPunch},
			{Name: "Test", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryTest},
			{Name: "Restore", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryRestore},
		},
	}
}

// weldSchedule has no receive milestone at all.
func weldSchedule() domain.Schedule {
	return domain.Schedule{
		ItemType: "weld",
		Milestones: []domain.Milestone{
			{Name: "Fit Up", Weight: 30, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
			{Name: "Weld Out", Weight: 60, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
			{Name: "Test", Weight: 10, Kind: domain.KindDiscrete, Category: domain.CategoryTest},
		},
	}
}

func TestCompute_SpoolScenario(t *testing.T) {
	values := map[string]float64{"Receive": 100, "Erect": 100}

	b, err := Compute(spoolSchedule(), values, 10)
	require.NoError(t, err)

	assert.InDelta(t, 45.0, b.Percent, 1e-9)
	assert.InDelta(t, 4.5, b.Earned, 1e-9)
	assert.InDelta(t, 0.5, b.ByCategory[domain.CategoryReceive], 1e-9)
	assert.InDelta(t, 4.0, b.ByCategory[domain.CategoryInstall], 1e-9)
	assert.Zero(t, b.ByCategory[domain.CategoryPunch])
	assert.Zero(t, b.ByCategory[domain.CategoryTest])
	assert.Zero(t, b.ByCategory[domain.CategoryRestore])
	assert.Empty(t, b.Unknown)
}

func TestCompute_ZeroWeightCategoryReportsZero(t *testing.T) {
	values := map[string]float64{"Fit Up": 100, "Weld Out": 100, "Test": 100}

	b, err := Compute(weldSchedule(), values, 8)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, b.Percent, 1e-9)
	assert.InDelta(t, 8.0, b.Earned, 1e-9)
	// Welds have no receive milestone: the category reports 0, not an error.
	assert.Zero(t, b.ByCategory[domain.CategoryReceive])
	assert.Contains(t, b.ByCategory, domain.CategoryReceive)
}

func TestCompute_PartialKindContributesProportionally(t *testing.T) {
	sched := domain.Schedule{
		ItemType: "threaded",
		Milestones: []domain.Milestone{
			{Name: "Run Pipe", Weight: 80, Kind: domain.KindPartial, Category: domain.CategoryInstall},
			{Name: "Test", Weight: 20, Kind: domain.KindDiscrete, Category: domain.CategoryTest},
		},
	}
	values := map[string]float64{"Run Pipe": 50}

	b, err := Compute(sched, values, 10)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, b.Percent, 1e-9)
	assert.InDelta(t, 4.0, b.Earned, 1e-9)
}

func TestCompute_DiscreteIgnoresPartialValues(t *testing.T) {
	// A half-entered value on a discrete milestone earns nothing.
	values := map[string]float64{"Erect": 50}

	b, err := Compute(spoolSchedule(), values, 10)
	require.NoError(t, err)
	assert.Zero(t, b.Percent)
	assert.Zero(t, b.Earned)
}

func TestCompute_ValueNamesMatchCaseInsensitively(t *testing.T) {
	values := map[string]float64{"RECEIVE": 100, "erect": 100}

	b, err := Compute(spoolSchedule(), values, 10)
	require.NoError(t, err)
	assert.InDelta(t, 45.0, b.Percent, 1e-9)
	assert.Empty(t, b.Unknown)
}

func TestCompute_UnknownMilestoneExcluded(t *testing.T) {
	values := map[string]float64{"Receive": 100, "Hydro": 100}

	b, err := Compute(spoolSchedule(), values, 10)
	require.NoError(t, err)

	// Legacy/renamed milestones are excluded from the sums, not fatal.
	assert.InDelta(t, 5.0, b.Percent, 1e-9)
	assert.Equal(t, []string{"Hydro"}, b.Unknown)
}

func TestCompute_EmptyScheduleFailsFast(t *testing.T) {
	_, err := Compute(domain.Schedule{ItemType: "valve"}, nil, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no milestone schedule")
}

func TestCompute_NegativeBudgetFailsFast(t *testing.T) {
	_, err := Compute(spoolSchedule(), nil, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestCompute_NoValuesMeansZeroProgress(t *testing.T) {
	b, err := Compute(spoolSchedule(), nil, 10)
	require.NoError(t, err)
	assert.Zero(t, b.Percent)
	assert.Zero(t, b.Earned)
	assert.Zero(t, b.CategorySum())
}

func TestCompute_MonotonicInSingleMilestone(t *testing.T) {
	sched := domain.Schedule{
		ItemType: "threaded",
		Milestones: []domain.Milestone{
			{Name: "Run Pipe", Weight: 70, Kind: domain.KindPartial, Category: domain.CategoryInstall},
			{Name: "Punch", Weight: 10, Kind: domain.KindDiscrete, Category: domain.CategoryPunch},
			{Name: "Test", Weight: 20, Kind: domain.KindDiscrete, Category: domain.CategoryTest},
		},
	}

	prev := -1.0
	for v := 0.0; v <= 100; v += 5 {
		values := map[string]float64{"Run Pipe": v, "Punch": 100}
		b, err := Compute(sched, values, 12)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, b.Percent, prev, "percent must not decrease as Run Pipe rises to %v", v)
		prev = b.Percent
	}
}

func TestCompute_Idempotent(t *testing.T) {
	values := map[string]float64{"Receive": 100, "Erect": 100, "Punch": 100}

	first, err := Compute(spoolSchedule(), values, 10)
	require.NoError(t, err)
	second, err := Compute(spoolSchedule(), values, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCheckReconciliation_HoldsAcrossShapes(t *testing.T) {
	cases := []struct {
		name   string
		sched  domain.Schedule
		values map[string]float64
		budget float64
	}{
		{"spool partial progress", spoolSchedule(), map[string]float64{"Receive": 100, "Erect": 100}, 10},
		{"spool complete", spoolSchedule(), map[string]float64{
			"Receive": 100, "Erect": 100, "Connect": 100, "Punch": 100, "Test": 100, "Restore": 100,
		}, 137.25},
		{"weld halfway", weldSchedule(), map[string]float64{"Fit Up": 100}, 6.4},
		{"zero budget", spoolSchedule(), map[string]float64{"Erect": 100}, 0},
		{"nothing recorded", weldSchedule(), nil, 99.9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Compute(tc.sched, tc.values, tc.budget)
			require.NoError(t, err)
			assert.NoError(t, CheckReconciliation(b))
		})
	}
}

func TestCheckReconciliation_FlagsDivergence(t *testing.T) {
	b := Breakdown{
		Percent: 50,
		Earned:  5,
		ByCategory: map[domain.Category]float64{
			domain.CategoryInstall: 4.5, // 0.5h short of Earned
		},
	}
	err := CheckReconciliation(b)
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestPercentCompleteAndEarnedHoursWrappers(t *testing.T) {
	values := map[string]float64{"Receive": 100, "Erect": 100}

	pct, err := PercentComplete(spoolSchedule(), values)
	require.NoError(t, err)
	assert.InDelta(t, 45.0, pct, 1e-9)

	earned, err := EarnedHours(spoolSchedule(), values, 10)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, earned, 1e-9)
}
