package formatter

import (
	"fmt"
	"strings"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/progress"
)

// FormatItemList renders a project's items as a progress table.
func FormatItemList(items []*domain.Item) string {
	headers := []string{"TAG", "TYPE", "BUDGET", "EARNED", "PROGRESS"}
	rows := make([][]string, 0, len(items))

	for _, item := range items {
		tag := Bold(item.Tag)
		if item.Retired() {
			tag = Dim(item.Tag + " (retired)")
		}
		rows = append(rows, []string{
			tag,
			Dim(item.Type),
			Hours(item.BudgetedHours),
			Hours(item.EarnedHours),
			RenderProgress(item.PercentComplete, 12),
		})
	}

	table := RenderTable(headers, rows, AlignLeft, AlignLeft, AlignRight, AlignRight)
	return RenderBox("Items", table)
}

// FormatItemInspect renders one item's detail card with its per-milestone
// state and category earned hours.
func FormatItemInspect(item *domain.Item, sched domain.Schedule, b progress.Breakdown) string {
	var out strings.Builder

	out.WriteString(fmt.Sprintf("%s  %s\n\n", StyleBold.Render(item.Tag), Dim(item.Type)))
	if item.Desc != "" {
		out.WriteString("  " + StyleFg.Render(item.Desc) + "\n")
	}
	out.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("ID     "), TruncID(item.ID)))
	out.WriteString(fmt.Sprintf("  %s  %s of %s\n", StyleDim.Render("EARNED "), Bold(Hours(b.Earned)), Hours(item.BudgetedHours)))
	out.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render("OVERALL"), RenderProgress(b.Percent, 20)))
	if item.Retired() {
		out.WriteString("  " + StyleYellow.Render("retired "+item.RetiredAt.Format("Jan 2, 2006")) + "\n")
	}

	out.WriteString("\n" + Header("Milestones") + "\n")
	headers := []string{"MILESTONE", "WEIGHT", "VALUE", "CATEGORY"}
	rows := make([][]string, 0, len(sched.Milestones))
	for _, m := range sched.Milestones {
		value := item.MilestoneValue(m.Name)
		rows = append(rows, []string{
			CompletionStyle(value).Render(m.Name),
			fmt.Sprintf("%.1f", m.Weight),
			CompletionStyle(value).Render(fmt.Sprintf("%.0f", value)),
			CategoryBadge(m.Category),
		})
	}
	out.WriteString(RenderTable(headers, rows, AlignLeft, AlignRight, AlignRight))

	out.WriteString("\n" + Header("Earned by Category") + "\n")
	for _, cat := range domain.Categories {
		out.WriteString(fmt.Sprintf("  %-22s %s\n", CategoryBadge(cat), Hours(b.ByCategory[cat])))
	}

	if len(b.Unknown) > 0 {
		out.WriteString("\n" + Warn("unmatched milestone values: "+strings.Join(b.Unknown, ", ")) + "\n")
	}

	return RenderBox("", out.String())
}

// FormatRecordResult renders the confirmation line after a milestone write.
func FormatRecordResult(item *domain.Item, event *domain.MilestoneEvent) string {
	verb := "Recorded"
	if event.Correction {
		verb = "Corrected"
	}
	return fmt.Sprintf("%s %s %s: %.0f → %.0f\n%s now %s earned, %s",
		verb, item.Tag, Bold(event.Milestone), event.PrevValue, event.NewValue,
		item.Tag, Bold(Hours(item.EarnedHours)), RenderProgress(item.PercentComplete, 12))
}
