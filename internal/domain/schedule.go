package domain

import "strings"

// Milestone is one entry in a resolved or stored milestone schedule.
type Milestone struct {
	Name     string
	Weight   float64 // 0-100 share of the item's budget
	Kind     MilestoneKind
	Category Category
}

// Schedule is an ordered milestone schedule for an item type. A nil
// ProjectID marks the type default; a non-nil ProjectID marks a
// project-level override of individual milestones.
type Schedule struct {
	ItemType   string
	ProjectID  *string
	Milestones []Milestone
}

// WeightSum returns the total weight across all entries.
func (s Schedule) WeightSum() float64 {
	var sum float64
	for _, m := range s.Milestones {
		sum += m.Weight
	}
	return sum
}

// Find returns the entry matching name case-insensitively, or false.
func (s Schedule) Find(name string) (Milestone, bool) {
	for _, m := range s.Milestones {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Milestone{}, false
}

// CategoryWeight returns the summed weight of entries tagged with the
// given category. Zero when the category has no milestones.
func (s Schedule) CategoryWeight(cat Category) float64 {
	var sum float64
	for _, m := range s.Milestones {
		if m.Category == cat {
			sum += m.Weight
		}
	}
	return sum
}
