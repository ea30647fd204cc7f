package domain

import "time"

// RollupRow is one row of the derived reporting cache: cumulative budgeted
// and earned hours for one dimension value within a project. It is a pure
// function of current items and can be rebuilt from scratch at any time.
type RollupRow struct {
	ProjectID      string
	Dimension      Dimension
	DimensionValue string
	BudgetedHours  float64
	EarnedHours    float64
	ItemCount      int
	UpdatedAt      time.Time
}

// PercentComplete returns earned over budgeted as a 0-100 figure, or 0 for
// an empty budget.
func (r RollupRow) PercentComplete() float64 {
	if r.BudgetedHours <= 0 {
		return 0
	}
	return r.EarnedHours / r.BudgetedHours * 100
}
