package formatter

import (
	"testing"
	"time"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/progress"
	"github.com/stretchr/testify/assert"
)

func spoolFixture() (*domain.Item, domain.Schedule) {
	sched := domain.Schedule{
		ItemType: "spool",
		Milestones: []domain.Milestone{
			{Name: "Receive", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryReceive},
			{Name: "Erect", Weight: 95, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
		},
	}
	item := &domain.Item{
		ID: "11112222-3333-4444-5555-666677778888", ProjectID: "p1",
		Tag: "SP-1042", Type: "spool", BudgetedHours: 10,
		PercentComplete: 5, EarnedHours: 0.5,
		Milestones: map[string]float64{"Receive": 100},
	}
	return item, sched
}

func TestFormatItemList(t *testing.T) {
	item, _ := spoolFixture()
	retired := &domain.Item{Tag: "SP-0001", Type: "spool"}
	at := time.Now()
	retired.RetiredAt = &at

	out := FormatItemList([]*domain.Item{item, retired})
	assert.Contains(t, out, "SP-1042")
	assert.Contains(t, out, "retired")
}

func TestFormatItemInspect(t *testing.T) {
	item, sched := spoolFixture()
	b := progress.Breakdown{
		Percent: 5, Earned: 0.5,
		ByCategory: map[domain.Category]float64{
			domain.CategoryReceive: 0.5, domain.CategoryInstall: 0,
			domain.CategoryPunch: 0, domain.CategoryTest: 0, domain.CategoryRestore: 0,
		},
	}

	out := FormatItemInspect(item, sched, b)
	assert.Contains(t, out, "SP-1042")
	assert.Contains(t, out, "Receive")
	assert.Contains(t, out, "Erect")
	assert.Contains(t, out, "0.5h")
}

func TestFormatRecordResult(t *testing.T) {
	item, _ := spoolFixture()
	event := &domain.MilestoneEvent{Milestone: "Receive", PrevValue: 0, NewValue: 100}

	out := FormatRecordResult(item, event)
	assert.Contains(t, out, "Recorded")
	assert.Contains(t, out, "Receive")

	event.Correction = true
	assert.Contains(t, FormatRecordResult(item, event), "Corrected")
}
