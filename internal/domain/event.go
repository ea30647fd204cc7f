package domain

import "time"

// MilestoneEvent records one change to one milestone value on one item.
// Events are append-only and immutable once written; the item's cached
// milestone map is the latest event per (item, milestone). Administrative
// corrections are themselves events with Correction set.
type MilestoneEvent struct {
	ID         string
	ItemID     string
	Milestone  string
	PrevValue  float64
	NewValue   float64
	Actor      string
	Correction bool
	Note       string
	RecordedAt time.Time
}

// ReplayValues folds events (oldest first) into the milestone map they
// project to. Replaying an item's full log from empty state must reproduce
// its cached map exactly.
func ReplayValues(events []*MilestoneEvent) map[string]float64 {
	values := make(map[string]float64)
	for _, e := range events {
		values[e.Milestone] = e.NewValue
	}
	return values
}
