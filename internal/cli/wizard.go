package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mhollis/spooltally/internal/cli/formatter"
	"github.com/mhollis/spooltally/internal/domain"
)

// spooltallyHuhTheme returns a custom huh theme using the existing palette.
func spooltallyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// runRecordWizard walks through item, milestone and value selection for the
// flags the caller left empty, then records the milestone.
func runRecordWizard(ctx context.Context, app *App, project string, tag, milestone, value *string) error {
	if *tag == "" {
		items, err := app.Items.ListByProject(ctx, project, false)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("project %s has no active items", project)
		}

		options := make([]huh.Option[string], 0, len(items))
		for _, item := range items {
			label := fmt.Sprintf("%s — %s (%.0f%%)", item.Tag, item.Type, item.PercentComplete)
			options = append(options, huh.NewOption(label, item.Tag))
		}

		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which Item?").
				Options(options...).
				Value(tag),
		)).WithTheme(spooltallyHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}
	}

	item, err := resolveItem(ctx, app, project, *tag)
	if err != nil {
		return err
	}

	if *milestone == "" {
		sched, err := app.Templates.Resolve(ctx, &item.ProjectID, item.Type)
		if err != nil {
			return err
		}

		options := make([]huh.Option[string], 0, len(sched.Milestones))
		for _, m := range sched.Milestones {
			label := fmt.Sprintf("%s (%.0f%%, %s)", m.Name, m.Weight, m.Category)
			if domain.IsComplete(item.MilestoneValue(m.Name)) {
				label += " ✔"
			}
			options = append(options, huh.NewOption(label, m.Name))
		}

		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which Milestone?").
				Options(options...).
				Value(milestone),
		)).WithTheme(spooltallyHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}
	}

	if *value == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Value").
				Description("Percent 0-100, or x/yes/done for complete").
				Placeholder("100").
				Value(value),
		)).WithTheme(spooltallyHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}
	}

	return recordMilestone(ctx, app, recordArgs{
		project: project, tag: *tag, milestone: *milestone, value: *value,
	})
}
