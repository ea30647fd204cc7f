package cli

import (
	"context"
	"fmt"

	"github.com/mhollis/spooltally/internal/cli/formatter"
	"github.com/mhollis/spooltally/internal/service"
	"github.com/spf13/cobra"
)

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Record and rebuild milestone progress",
	}

	cmd.AddCommand(
		newProgressRecordCmd(app),
		newProgressCorrectCmd(app),
		newProgressRebuildCmd(app),
	)

	return cmd
}

func newProgressRecordCmd(app *App) *cobra.Command {
	var project, tag, milestone, value, actor, note string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a milestone value for an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// Fall back to the wizard when the terminal is interactive and
			// the identifying flags were not all given.
			if (tag == "" || milestone == "" || value == "") && app.interactive() {
				return runRecordWizard(ctx, app, project, &tag, &milestone, &value)
			}

			return recordMilestone(ctx, app, recordArgs{
				project: project, tag: tag, milestone: milestone, value: value,
				actor: actor, note: note,
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&tag, "tag", "", "Item tag")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Milestone name")
	cmd.Flags().StringVar(&value, "value", "", "Milestone value (percent, or x/yes/done for complete)")
	cmd.Flags().StringVar(&actor, "actor", "", "Who reports the progress")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newProgressCorrectCmd(app *App) *cobra.Command {
	var project, tag, milestone, value, actor, note string

	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Record an administrative correction",
		Long: "Writes a correction event instead of editing history. The previous " +
			"value stays in the log; reports over past windows keep their audit trail.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordMilestone(context.Background(), app, recordArgs{
				project: project, tag: tag, milestone: milestone, value: value,
				actor: actor, note: note, correction: true,
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&tag, "tag", "", "Item tag")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Milestone name")
	cmd.Flags().StringVar(&value, "value", "", "Corrected milestone value")
	cmd.Flags().StringVar(&actor, "actor", "", "Who authorizes the correction")
	cmd.Flags().StringVar(&note, "note", "", "Reason for the correction")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("tag")
	_ = cmd.MarkFlagRequired("milestone")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("note")

	return cmd
}

type recordArgs struct {
	project, tag, milestone, value, actor, note string
	correction                                  bool
}

func recordMilestone(ctx context.Context, app *App, a recordArgs) error {
	item, err := resolveItem(ctx, app, a.project, a.tag)
	if err != nil {
		return err
	}

	actor := a.actor
	if actor == "" {
		actor = app.DefaultActor
	}

	event, err := app.Progress.Record(ctx, service.RecordRequest{
		ItemID:     item.ID,
		Milestone:  a.milestone,
		RawValue:   a.value,
		Actor:      actor,
		Note:       a.note,
		Correction: a.correction,
	})
	if err != nil {
		return err
	}

	updated, err := app.Items.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", formatter.FormatRecordResult(updated, event))
	return nil
}

func newProgressRebuildCmd(app *App) *cobra.Command {
	var project, tag string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild cached projections from the event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if tag != "" {
				item, err := resolveItem(ctx, app, project, tag)
				if err != nil {
					return err
				}
				rebuilt, err := app.Progress.RebuildItem(ctx, item.ID)
				if err != nil {
					return err
				}
				fmt.Printf("Rebuilt %s: %.1f%% complete, %.1fh earned\n",
					rebuilt.Tag, rebuilt.PercentComplete, rebuilt.EarnedHours)
				return nil
			}

			items, err := app.Items.ListByProject(ctx, project, false)
			if err != nil {
				return err
			}
			for _, item := range items {
				if _, err := app.Progress.RebuildItem(ctx, item.ID); err != nil {
					return fmt.Errorf("rebuilding %s: %w", item.Tag, err)
				}
			}
			if err := app.Progress.RebuildRollups(ctx, project); err != nil {
				return err
			}
			fmt.Printf("Rebuilt %d item(s) and all rollups for project %s\n", len(items), project)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&tag, "tag", "", "Rebuild a single item instead of the whole project")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}
