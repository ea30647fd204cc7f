package domain

import "time"

// Item is a trackable unit of construction work: a pipe spool, field weld,
// valve, support, instrument, or threaded run. Its percent/earned/milestone
// fields are a cached projection of the latest MilestoneEvent per milestone
// and can always be rebuilt from the event log.
type Item struct {
	ID        string
	ProjectID string
	Tag       string // natural key, unique per project (e.g. "SP-1042")
	Type      string
	Desc      string

	BudgetedHours float64

	// Cached projection
	PercentComplete float64
	EarnedHours     float64
	Milestones      map[string]float64

	// Reporting dimensions
	AreaID        *string
	SystemID      *string
	TestPackageID *string
	DrawingID     *string
	WelderID      *string

	RetiredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Retired reports whether the item has been flagged retired. Retired items
// are kept for history but excluded from rollups.
func (i *Item) Retired() bool {
	return i.RetiredAt != nil
}

// DimensionValue returns the item's assignment on the given dimension, or
// nil when unassigned.
func (i *Item) DimensionValue(dim Dimension) *string {
	switch dim {
	case DimensionArea:
		return i.AreaID
	case DimensionSystem:
		return i.SystemID
	case DimensionTestPackage:
		return i.TestPackageID
	case DimensionWelder:
		return i.WelderID
	default:
		return nil
	}
}

// MilestoneValue returns the cached value for a milestone, defaulting to 0
// when the milestone has never been recorded.
func (i *Item) MilestoneValue(name string) float64 {
	return i.Milestones[name]
}
