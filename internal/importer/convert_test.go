package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Items(t *testing.T) {
	schema := &ImportSchema{
		ProjectID: "p1",
		Items: []ItemImport{
			{
				Tag:           "sp-1001",
				Type:          "spool",
				Desc:          "6in CS spool",
				BudgetedHours: 12,
				Area:          ptrStr("A-100"),
				Drawing:       ptrStr("ISO-1001"),
			},
			{Tag: "FW-2001", Type: "weld", BudgetedHours: 2.5},
		},
	}

	batch := Convert(schema)
	require.Len(t, batch.Items, 2)
	assert.Equal(t, "p1", batch.ProjectID)

	sp := batch.Items[0]
	assert.NotEmpty(t, sp.ID)
	assert.Equal(t, "p1", sp.ProjectID)
	assert.Equal(t, "SP-1001", sp.Tag)
	assert.Equal(t, "spool", sp.Type)
	assert.Equal(t, "6in CS spool", sp.Desc)
	assert.Equal(t, 12.0, sp.BudgetedHours)
	require.NotNil(t, sp.AreaID)
	assert.Equal(t, "A-100", *sp.AreaID)
	require.NotNil(t, sp.DrawingID)
	assert.Equal(t, "ISO-1001", *sp.DrawingID)
	assert.Nil(t, sp.WelderID)
	assert.NotNil(t, sp.Milestones)
	assert.Empty(t, sp.Milestones)
	assert.False(t, sp.CreatedAt.IsZero())

	assert.NotEqual(t, batch.Items[0].ID, batch.Items[1].ID)
}

func TestConvert_ProgressBoundToItemIDs(t *testing.T) {
	schema := &ImportSchema{
		ProjectID: "p1",
		Items: []ItemImport{
			{Tag: "SP-1001", Type: "spool", BudgetedHours: 12},
		},
		Progress: []ProgressImport{
			{Tag: "sp-1001", Milestone: "Receive", Value: "x", Note: "legacy"},
		},
	}

	batch := Convert(schema)
	require.Len(t, batch.Progress, 1)

	p := batch.Progress[0]
	assert.Equal(t, batch.Items[0].ID, p.ItemID)
	assert.Equal(t, "SP-1001", p.Tag)
	assert.Equal(t, "Receive", p.Milestone)
	assert.Equal(t, "x", p.RawValue)
	assert.Equal(t, "legacy", p.Note)
}

func TestConvert_NoProgress(t *testing.T) {
	batch := Convert(&ImportSchema{
		ProjectID: "p1",
		Items:     []ItemImport{{Tag: "SP-1", Type: "spool", BudgetedHours: 1}},
	})
	assert.Empty(t, batch.Progress)
}
