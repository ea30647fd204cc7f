package progress

import (
	"fmt"
	"math"
	"strings"

	"github.com/mhollis/spooltally/internal/domain"
)

// WeightTolerance is the permitted deviation of a schedule's weight sum
// from 100.
const WeightTolerance = 0.01

// ValidateSchedule checks a milestone schedule for structural errors and
// enforces the 100%-weight-sum invariant. The sum violation wraps
// ErrSchemaInvalid so registry writes can reject it with errors.Is.
func ValidateSchedule(s domain.Schedule) error {
	if s.ItemType == "" {
		return fmt.Errorf("schedule item type is required")
	}
	if len(s.Milestones) == 0 {
		return fmt.Errorf("schedule for %q has no milestones", s.ItemType)
	}

	seen := make(map[string]bool, len(s.Milestones))
	for i, m := range s.Milestones {
		if m.Name == "" {
			return fmt.Errorf("schedule for %q: milestone[%d] has no name", s.ItemType, i)
		}
		key := strings.ToLower(m.Name)
		if seen[key] {
			return fmt.Errorf("schedule for %q: duplicate milestone %q", s.ItemType, m.Name)
		}
		seen[key] = true

		if m.Weight < 0 || m.Weight > 100 {
			return fmt.Errorf("schedule for %q: milestone %q weight %.2f out of range", s.ItemType, m.Name, m.Weight)
		}
		if m.Kind != domain.KindDiscrete && m.Kind != domain.KindPartial {
			return fmt.Errorf("schedule for %q: milestone %q has unknown kind %q", s.ItemType, m.Name, m.Kind)
		}
		if !domain.ValidCategories[string(m.Category)] {
			return fmt.Errorf("schedule for %q: milestone %q has unknown category %q", s.ItemType, m.Name, m.Category)
		}
	}

	if sum := s.WeightSum(); math.Abs(sum-100) > WeightTolerance {
		return fmt.Errorf("schedule for %q: weights sum to %.2f, want 100: %w", s.ItemType, sum, ErrSchemaInvalid)
	}
	return nil
}
