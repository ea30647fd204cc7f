package progress

import (
	"fmt"
	"strings"

	"github.com/mhollis/spooltally/internal/domain"
)

// Resolve merges a project override into an item type's default schedule
// and validates the result. This is the single merge point for the two-tier
// template system: every override entry replaces the weight/kind/category
// of the default milestone it names (matched case-insensitively) and
// un-overridden milestones keep their defaults. Order and name spelling
// come from the default.
//
// A nil override returns the validated default unchanged. An override entry
// naming no default milestone is an error: silently ignoring it would hide
// typos in override rows. The resolved weight sum must be 100 within
// WeightTolerance or Resolve fails with ErrSchemaInvalid.
func Resolve(def domain.Schedule, override *domain.Schedule) (domain.Schedule, error) {
	resolved := domain.Schedule{
		ItemType:   def.ItemType,
		Milestones: make([]domain.Milestone, len(def.Milestones)),
	}
	copy(resolved.Milestones, def.Milestones)

	if override != nil {
		resolved.ProjectID = override.ProjectID
		for _, o := range override.Milestones {
			idx := -1
			for i, m := range resolved.Milestones {
				if strings.EqualFold(m.Name, o.Name) {
					idx = i
					break
				}
			}
			if idx < 0 {
				return domain.Schedule{}, fmt.Errorf(
					"override for %q names unknown milestone %q", def.ItemType, o.Name)
			}
			resolved.Milestones[idx].Weight = o.Weight
			resolved.Milestones[idx].Kind = o.Kind
			resolved.Milestones[idx].Category = o.Category
		}
	}

	if err := ValidateSchedule(resolved); err != nil {
		return domain.Schedule{}, err
	}
	return resolved, nil
}
