package formatter

import (
	"testing"
	"time"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestFormatSnapshot_IncludesTotals(t *testing.T) {
	rows := []domain.RollupRow{
		{DimensionValue: "A-100", BudgetedHours: 10, EarnedHours: 4.5, ItemCount: 2, UpdatedAt: time.Now()},
		{DimensionValue: "A-200", BudgetedHours: 30, EarnedHours: 15, ItemCount: 5, UpdatedAt: time.Now()},
	}

	out := FormatSnapshot(domain.DimensionArea, rows)
	assert.Contains(t, out, "A-100")
	assert.Contains(t, out, "A-200")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "40h")
}

func TestFormatDelta_EmptyWindow(t *testing.T) {
	report := &service.DeltaReport{}

	out := FormatDelta(domain.DimensionArea, "2026-03-01", "2026-03-08", report)
	assert.Contains(t, out, "No movement")
}

func TestFormatDelta_ShowsFindings(t *testing.T) {
	report := &service.DeltaReport{
		Rows: []service.DeltaRow{
			{DimensionValue: "A-100", BudgetedHours: 10, DeltaHours: -4,
				ByCategory: map[domain.Category]float64{domain.CategoryInstall: -4}, ItemCount: 1},
		},
		TotalBudgeted:   10,
		TotalDelta:      -4,
		TotalByCategory: map[domain.Category]float64{domain.CategoryInstall: -4},
		Untracked: []service.UntrackedItem{
			{Tag: "SP-7", CachedPercent: 45},
		},
		Mismatches: []service.CacheMismatch{
			{Tag: "SP-9", CachedPercent: 99, ReplayedPercent: 40},
		},
	}

	out := FormatDelta(domain.DimensionArea, "2026-03-01", "2026-03-08", report)
	assert.Contains(t, out, "A-100")
	assert.Contains(t, out, "SP-7")
	assert.Contains(t, out, "SP-9")
	assert.Contains(t, out, "-4h")
}

func TestFormatIntegrity_Clean(t *testing.T) {
	out := FormatIntegrity("p1", &service.IntegrityReport{ItemCount: 3})
	assert.Contains(t, out, "No problems found")
}

func TestFormatIntegrity_Findings(t *testing.T) {
	report := &service.IntegrityReport{
		ItemCount:           2,
		InvariantViolations: []string{"SP-1"},
		Unknown:             map[string][]string{"SP-2": {"Paint"}},
	}

	out := FormatIntegrity("p1", report)
	assert.Contains(t, out, "SP-1")
	assert.Contains(t, out, "Paint")
}
