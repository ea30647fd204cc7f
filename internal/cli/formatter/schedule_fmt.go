package formatter

import (
	"fmt"
	"strings"

	"github.com/mhollis/spooltally/internal/domain"
)

// FormatTypeList renders the item types carrying a default schedule.
// Types present in overridden are marked as customized.
func FormatTypeList(types []string, overridden map[string]bool) string {
	headers := []string{"TYPE", "SCHEDULE"}
	rows := make([][]string, 0, len(types))

	for _, t := range types {
		source := Dim("default")
		if overridden[strings.ToLower(t)] {
			source = StylePurple.Render("override")
		}
		rows = append(rows, []string{Bold(t), source})
	}

	table := RenderTable(headers, rows)
	return RenderBox("Item Types", table)
}

// FormatSchedule renders a resolved milestone schedule as a weight table.
func FormatSchedule(sched domain.Schedule) string {
	var b strings.Builder

	title := StyleBold.Render(sched.ItemType)
	if sched.ProjectID != nil {
		title += "  " + StylePurple.Render("override: "+*sched.ProjectID)
	}
	b.WriteString(title + "\n\n")

	headers := []string{"MILESTONE", "WEIGHT", "KIND", "CATEGORY"}
	rows := make([][]string, 0, len(sched.Milestones))
	for _, m := range sched.Milestones {
		rows = append(rows, []string{
			StyleFg.Render(m.Name),
			fmt.Sprintf("%.1f", m.Weight),
			Dim(string(m.Kind)),
			CategoryBadge(m.Category),
		})
	}
	b.WriteString(RenderTable(headers, rows, AlignLeft, AlignRight))

	b.WriteString("\n" + Dim(fmt.Sprintf("weight sum: %.2f", sched.WeightSum())))
	return RenderBox("", b.String())
}
