package progress

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mhollis/spooltally/internal/domain"
)

// WindowChange is the net movement of one milestone inside a report
// window: Start is the previous_value of the first in-window event, End
// the value of the last. End may be below Start after a correction.
type WindowChange struct {
	Start float64
	End   float64
}

// DeltaBreakdown is the earned-hour movement of one item over a window.
/// Hours is signed: corrections and rollbacks report negative movement
// rather than being discarded or floored at zero.
type DeltaBreakdown struct {
	Hours      float64
	ByCategory map[domain.Category]float64
	Unknown    []string
}

// ComputeDelta converts per-milestone window changes into earned-hour
// movement using the same weight/kind logic as Compute. Milestones with no
// in-window change simply do not appear in changes and contribute nothing.
func ComputeDelta(sched domain.Schedule, changes map[string]WindowChange, budgetedHours float64) (DeltaBreakdown, error) {
	if len(sched.Milestones) == 0 {
		return DeltaBreakdown{}, fmt.Errorf("no milestone schedule for item type %q", sched.ItemType)
	}
	if budgetedHours < 0 {
		return DeltaBreakdown{}, fmt.Errorf("budgeted hours %.2f is negative", budgetedHours)
	}

	byCategory := make(map[domain.Category]float64, len(domain.Categories))
	for _, cat := range domain.Categories {
		byCategory[cat] = 0
	}

	var total float64
	var unknown []string
	for name, ch := range changes {
		m, ok := sched.Find(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		net := completion(m.Kind, ch.End) - completion(m.Kind, ch.Start)
		hours := budgetedHours * m.Weight / 100 * net / 100
		total += hours
		byCategory[m.Category] += hours
	}
	sort.Strings(unknown)

	return DeltaBreakdown{
		Hours:      total,
		ByCategory: byCategory,
		Unknown:    unknown,
	}, nil
}

// Merge accumulates another item's delta into this one, used when rolling
// several items up to one dimension value.
func (d *DeltaBreakdown) Merge(other DeltaBreakdown) {
	if d.ByCategory == nil {
		d.ByCategory = make(map[domain.Category]float64, len(domain.Categories))
		for _, cat := range domain.Categories {
			d.ByCategory[cat] = 0
		}
	}
	d.Hours += other.Hours
	for cat, v := range other.ByCategory {
		d.ByCategory[cat] += v
	}
	d.Unknown = append(d.Unknown, other.Unknown...)
	sort.Strings(d.Unknown)
	d.Unknown = dedupe(d.Unknown)
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	var prev string
	for i, s := range sorted {
		if i == 0 || !strings.EqualFold(s, prev) {
			out = append(out, s)
		}
		prev = s
	}
	return out
}
