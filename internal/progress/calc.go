package progress

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mhollis/spooltally/internal/domain"
)

// Breakdown is the full earned-value picture for one item: overall percent
// complete, earned hours, earned hours per reporting category, and any
// recorded milestone values that matched no schedule entry.
type Breakdown struct {
	Percent    float64
	Earned     float64
	ByCategory map[domain.Category]float64

	// Unknown lists recorded milestone names with no matching schedule
	// entry. They are excluded from all sums; callers log a warning.
	// Renamed or legacy milestones must not take down reporting.
	Unknown []string
}

// CategorySum returns the total of the per-category earned hours. It must
// always reconcile with Earned; see CheckReconciliation.
func (b Breakdown) CategorySum() float64 {
	var sum float64
	for _, v := range b.ByCategory {
		sum += v
	}
	return sum
}

// Compute derives a Breakdown from a resolved schedule, an item's current
// milestone value map, and its budgeted hours. Pure: same inputs always
// yield the same result. Malformed input (empty schedule, negative budget)
// fails fast rather than returning a zero result indistinguishable from
// legitimate zero progress.
func Compute(sched domain.Schedule, values map[string]float64, budgetedHours float64) (Breakdown, error) {
	if len(sched.Milestones) == 0 {
		return Breakdown{}, fmt.Errorf("no milestone schedule for item type %q", sched.ItemType)
	}
	if budgetedHours < 0 {
		return Breakdown{}, fmt.Errorf("budgeted hours %.2f is negative", budgetedHours)
	}

	folded := make(map[string]float64, len(values))
	for name, v := range values {
		folded[strings.ToLower(name)] = v
	}
	matched := make(map[string]bool, len(values))

	// Overall percent: straight weighted sum over the schedule.
	var percent float64
	for _, m := range sched.Milestones {
		key := strings.ToLower(m.Name)
		v, ok := folded[key]
		if ok {
			matched[key] = true
		}
		percent += m.Weight * completion(m.Kind, v) / 100
	}
	percent = clamp(percent, 0, 100)

	// Per-category: normalize each category's weighted completion to its
	// own weight, then scale by the category's share of the budget. This
	// path is deliberately shaped like the reporting formula rather than
	// the percent sum above; CheckReconciliation ties the two together.
	byCategory := make(map[domain.Category]float64, len(domain.Categories))
	for _, cat := range domain.Categories {
		catWeight := sched.CategoryWeight(cat)
		if catWeight <= 0 {
			byCategory[cat] = 0
			continue
		}
		var weighted float64
		for _, m := range sched.Milestones {
			if m.Category != cat {
				continue
			}
			weighted += m.Weight * completion(m.Kind, folded[strings.ToLower(m.Name)]) / 100
		}
		catPct := weighted / catWeight * 100
		byCategory[cat] = budgetedHours * catWeight / 100 * catPct / 100
	}

	var unknown []string
	for name := range values {
		if !matched[strings.ToLower(name)] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)

	return Breakdown{
		Percent:    percent,
		Earned:     budgetedHours * percent / 100,
		ByCategory: byCategory,
		Unknown:    unknown,
	}, nil
}

// PercentComplete returns only the overall percent figure.
func PercentComplete(sched domain.Schedule, values map[string]float64) (float64, error) {
	b, err := Compute(sched, values, 0)
	if err != nil {
		return 0, err
	}
	return b.Percent, nil
}

// EarnedHours returns only the overall earned-hours figure.
func EarnedHours(sched domain.Schedule, values map[string]float64, budgetedHours float64) (float64, error) {
	b, err := Compute(sched, values, budgetedHours)
	if err != nil {
		return 0, err
	}
	return b.Earned, nil
}

// completion maps a stored value to 0-100 completion under the entry kind.
func completion(kind domain.MilestoneKind, value float64) float64 {
	if kind == domain.KindDiscrete {
		if domain.IsComplete(value) {
			return 100
		}
		return 0
	}
	return clamp(value, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
