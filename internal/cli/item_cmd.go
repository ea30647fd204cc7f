package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mhollis/spooltally/internal/cli/formatter"
	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/progress"
	"github.com/spf13/cobra"
)

// resolveItem looks an item up by tag first, then by full ID, matching the
// way tags are used on site (stamped on the spool, unique per project).
func resolveItem(ctx context.Context, app *App, project, ref string) (*domain.Item, error) {
	if ref == "" {
		return nil, fmt.Errorf("item tag or ID is required")
	}
	item, err := app.Items.GetByTag(ctx, project, strings.ToUpper(ref))
	if err == nil {
		return item, nil
	}
	return app.Items.GetByID(ctx, ref)
}

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage trackable items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemImportCmd(app),
		newItemListCmd(app),
		newItemInspectCmd(app),
		newItemRetireCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var project, tag, itemType, desc string
	var area, system, testPackage, drawing, welder string
	var budget float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new item",
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &domain.Item{
				ProjectID:     project,
				Tag:           strings.ToUpper(tag),
				Type:          itemType,
				Desc:          desc,
				BudgetedHours: budget,
			}
			if area != "" {
				item.AreaID = &area
			}
			if system != "" {
				item.SystemID = &system
			}
			if testPackage != "" {
				item.TestPackageID = &testPackage
			}
			if drawing != "" {
				item.DrawingID = &drawing
			}
			if welder != "" {
				item.WelderID = &welder
			}

			if err := app.Items.Create(context.Background(), item); err != nil {
				return err
			}

			fmt.Printf("Added %s %s (%.1f budgeted hours)\n", item.Type, item.Tag, item.BudgetedHours)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&tag, "tag", "", "Item tag, unique per project (e.g. SP-1042)")
	cmd.Flags().StringVar(&itemType, "type", "", "Item type (spool|weld|valve|support|instrument|threaded)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Budgeted labor hours")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&area, "area", "", "Area assignment")
	cmd.Flags().StringVar(&system, "system", "", "System assignment")
	cmd.Flags().StringVar(&testPackage, "test-package", "", "Test package assignment")
	cmd.Flags().StringVar(&drawing, "drawing", "", "Drawing reference")
	cmd.Flags().StringVar(&welder, "welder", "", "Welder assignment")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("tag")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func newItemImportCmd(app *App) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Bulk-load items from a takeoff JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if actor == "" {
				actor = app.DefaultActor
			}
			result, err := app.Import.ImportFile(context.Background(), args[0], actor)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d items (%d seeded events) into project %s\n",
				result.ItemCount, result.EventCount, result.ProjectID)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded on seeded events")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var project string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Items.ListByProject(context.Background(), project, all)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No items found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatItemList(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().BoolVar(&all, "all", false, "Include retired items")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newItemInspectCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "inspect TAG",
		Short: "Show item details and milestone breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			item, err := resolveItem(ctx, app, project, args[0])
			if err != nil {
				return err
			}

			sched, err := app.Templates.Resolve(ctx, &item.ProjectID, item.Type)
			if err != nil {
				return err
			}
			breakdown, err := app.Items.Progress(ctx, item.ID)
			if err != nil && !errors.Is(err, progress.ErrInvariantViolation) {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatItemInspect(item, sched, breakdown))
			if errors.Is(err, progress.ErrInvariantViolation) {
				fmt.Printf("%s\n", formatter.Warn("category totals do not reconcile with earned hours"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newItemRetireCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "retire TAG",
		Short: "Retire an item, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			item, err := resolveItem(ctx, app, project, args[0])
			if err != nil {
				return err
			}
			if err := app.Items.Retire(ctx, item.ID); err != nil {
				return err
			}
			fmt.Printf("Retired %s\n", item.Tag)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
