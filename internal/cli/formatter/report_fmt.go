package formatter

import (
	"fmt"
	"strings"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/service"
)

func dimensionLabel(dim domain.Dimension) string {
	return strings.ToUpper(strings.ReplaceAll(string(dim), "_", " "))
}

// FormatSnapshot renders current rollup rows for one dimension.
func FormatSnapshot(dim domain.Dimension, rows []domain.RollupRow) string {
	headers := []string{dimensionLabel(dim), "ITEMS", "BUDGET", "EARNED", "PROGRESS"}
	table := make([][]string, 0, len(rows))

	var totalBudget, totalEarned float64
	var totalItems int
	for _, r := range rows {
		table = append(table, []string{
			Bold(r.DimensionValue),
			fmt.Sprintf("%d", r.ItemCount),
			Hours(r.BudgetedHours),
			Hours(r.EarnedHours),
			RenderProgress(r.PercentComplete(), 12),
		})
		totalBudget += r.BudgetedHours
		totalEarned += r.EarnedHours
		totalItems += r.ItemCount
	}

	totalPct := 0.0
	if totalBudget > 0 {
		totalPct = totalEarned / totalBudget * 100
	}
	table = append(table, []string{
		Dim("TOTAL"),
		Dim(fmt.Sprintf("%d", totalItems)),
		Dim(Hours(totalBudget)),
		Dim(Hours(totalEarned)),
		RenderProgress(totalPct, 12),
	})

	rendered := RenderTable(headers, table, AlignLeft, AlignRight, AlignRight, AlignRight)
	return RenderBox("Snapshot", rendered)
}

// FormatDelta renders an earned-hours movement report over one window.
func FormatDelta(dim domain.Dimension, from, to string, report *service.DeltaReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s %s\n\n", Dim(from), Dim("to"), Dim(to)))

	if len(report.Rows) == 0 {
		b.WriteString(Dim("No movement in this window.") + "\n")
	} else {
		headers := []string{dimensionLabel(dim), "ITEMS", "BUDGET", "DELTA"}
		for _, cat := range domain.Categories {
			headers = append(headers, strings.ToUpper(string(cat)))
		}

		rows := make([][]string, 0, len(report.Rows)+1)
		for _, r := range report.Rows {
			row := []string{
				Bold(r.DimensionValue),
				fmt.Sprintf("%d", r.ItemCount),
				Hours(r.BudgetedHours),
				SignedHours(r.DeltaHours),
			}
			for _, cat := range domain.Categories {
				row = append(row, SignedHours(r.ByCategory[cat]))
			}
			rows = append(rows, row)
		}

		total := []string{Dim("TOTAL"), "", Dim(Hours(report.TotalBudgeted)), SignedHours(report.TotalDelta)}
		for _, cat := range domain.Categories {
			total = append(total, SignedHours(report.TotalByCategory[cat]))
		}
		rows = append(rows, total)

		aligns := []Align{AlignLeft, AlignRight, AlignRight, AlignRight,
			AlignRight, AlignRight, AlignRight, AlignRight, AlignRight}
		b.WriteString(RenderTable(headers, rows, aligns...))
	}

	writeFindings(&b, report.Untracked, report.Mismatches, report.Unknown)

	return RenderBox("Earned Hours Delta", b.String())
}

// FormatIntegrity renders the result of a project consistency sweep.
func FormatIntegrity(project string, report *service.IntegrityReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(project), Dim(fmt.Sprintf("%d active item(s)", report.ItemCount))))

	if report.Clean() {
		b.WriteString("\n" + StyleGreen.Render("✔ No problems found.") + "\n")
		return RenderBox("Integrity Check", b.String())
	}

	if len(report.InvariantViolations) > 0 {
		b.WriteString("\n" + Header("Reconciliation Failures") + "\n")
		for _, tag := range report.InvariantViolations {
			b.WriteString("  " + StyleRed.Render(tag) + "\n")
		}
	}
	for tag, names := range report.Unknown {
		b.WriteString("\n" + Warn(fmt.Sprintf("%s carries unmatched milestone values: %s", tag, strings.Join(names, ", "))) + "\n")
	}

	var unknown []string
	writeFindings(&b, report.Untracked, report.Mismatches, unknown)

	return RenderBox("Integrity Check", b.String())
}

func writeFindings(b *strings.Builder, untracked []service.UntrackedItem, mismatches []service.CacheMismatch, unknown []string) {
	if len(untracked) > 0 {
		b.WriteString("\n" + Header("Untracked Progress") + "\n")
		for _, u := range untracked {
			b.WriteString("  " + Warn(fmt.Sprintf("%s shows %.0f%% with no recorded events", u.Tag, u.CachedPercent)) + "\n")
		}
	}
	if len(mismatches) > 0 {
		b.WriteString("\n" + Header("Cache Divergence") + "\n")
		for _, m := range mismatches {
			b.WriteString("  " + StyleRed.Render(fmt.Sprintf("%s cached %.1f%% but the log replays to %.1f%%", m.Tag, m.CachedPercent, m.ReplayedPercent)) + "\n")
		}
	}
	if len(unknown) > 0 {
		b.WriteString("\n" + Warn("unmatched milestone names in log: "+strings.Join(unknown, ", ")) + "\n")
	}
}
