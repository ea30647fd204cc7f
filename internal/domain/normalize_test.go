package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValue_LegacyCompleteSpellings(t *testing.T) {
	for _, raw := range []string{"true", "TRUE", "yes", "x", "X", "done", "complete", "100", "100.0"} {
		v, err := NormalizeValue(raw, KindDiscrete)
		require.NoError(t, err, "raw %q", raw)
		assert.True(t, IsComplete(v), "raw %q should normalize to complete", raw)
	}
}

func TestNormalizeValue_LegacyUnitScaleOnDiscrete(t *testing.T) {
	v, err := NormalizeValue("1", KindDiscrete)
	require.NoError(t, err)
	assert.True(t, IsComplete(v))

	v, err = NormalizeValue("0", KindDiscrete)
	require.NoError(t, err)
	assert.False(t, IsComplete(v))
}

func TestNormalizeValue_UnitScaleLiteralOnPartial(t *testing.T) {
	// "1" on a graded milestone means 1 percent, not complete.
	v, err := NormalizeValue("1", KindPartial)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestNormalizeValue_Numeric(t *testing.T) {
	v, err := NormalizeValue(" 87.5 ", KindPartial)
	require.NoError(t, err)
	assert.InDelta(t, 87.5, v, 1e-9)
}

func TestNormalizeValue_Rejections(t *testing.T) {
	for _, raw := range []string{"", "maybe", "-5", "101", "45%"} {
		_, err := NormalizeValue(raw, KindPartial)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestSchedule_FindAndCategoryWeight(t *testing.T) {
	s := Schedule{
		ItemType: "valve",
		Milestones: []Milestone{
			{Name: "Receive", Weight: 10, Kind: KindDiscrete, Category: CategoryReceive},
			{Name: "Install", Weight: 70, Kind: KindDiscrete, Category: CategoryInstall},
			{Name: "Test", Weight: 20, Kind: KindDiscrete, Category: CategoryTest},
		},
	}

	m, ok := s.Find("install")
	require.True(t, ok)
	assert.Equal(t, "Install", m.Name)

	_, ok = s.Find("paint")
	assert.False(t, ok)

	assert.InDelta(t, 70.0, s.CategoryWeight(CategoryInstall), 1e-9)
	assert.Zero(t, s.CategoryWeight(CategoryPunch))
	assert.InDelta(t, 100.0, s.WeightSum(), 1e-9)
}

func TestReplayValues_LatestEventWins(t *testing.T) {
	events := []*MilestoneEvent{
		{Milestone: "Erect", PrevValue: 0, NewValue: 100},
		{Milestone: "Connect", PrevValue: 0, NewValue: 100},
		{Milestone: "Erect", PrevValue: 100, NewValue: 0, Correction: true},
	}

	values := ReplayValues(events)
	assert.InDelta(t, 0.0, values["Erect"], 1e-9)
	assert.InDelta(t, 100.0, values["Connect"], 1e-9)
}

func TestItem_DimensionValue(t *testing.T) {
	area := "A-100"
	welder := "W-07"
	item := Item{AreaID: &area, WelderID: &welder}

	require.NotNil(t, item.DimensionValue(DimensionArea))
	assert.Equal(t, "A-100", *item.DimensionValue(DimensionArea))
	assert.Equal(t, "W-07", *item.DimensionValue(DimensionWelder))
	assert.Nil(t, item.DimensionValue(DimensionSystem))
	assert.Nil(t, item.DimensionValue(DimensionTestPackage))
}
