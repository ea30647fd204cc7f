package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mhollis/spooltally/internal/cli/formatter"
	"github.com/mhollis/spooltally/internal/domain"
	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage milestone schedules",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateShowCmd(app),
		newTemplateSeedCmd(app),
		newTemplateSetOverrideCmd(app),
		newTemplateClearOverrideCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List item types with default schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			types, err := app.Templates.ListTypes(ctx)
			if err != nil {
				return err
			}
			if len(types) == 0 {
				fmt.Println("No schedules defined. Run `spooltally template seed DIR` first.")
				return nil
			}

			overridden := make(map[string]bool)
			if project != "" {
				overrides, err := app.Templates.ListOverrides(ctx, project)
				if err != nil {
					return err
				}
				for _, o := range overrides {
					overridden[strings.ToLower(o.ItemType)] = true
				}
			}

			fmt.Printf("%s\n", formatter.FormatTypeList(types, overridden))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Mark types this project overrides")

	return cmd
}

func newTemplateShowCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "show TYPE",
		Short: "Show the resolved schedule for an item type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pid *string
			if project != "" {
				pid = &project
			}
			sched, err := app.Templates.Resolve(context.Background(), pid, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatSchedule(sched))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Resolve with this project's override applied")

	return cmd
}

func newTemplateSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed DIR",
		Short: "Load default schedules from JSON seed files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := app.Templates.SeedFromDir(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d default schedule(s) from %s\n", count, args[0])
			return nil
		},
	}
}

// parseMilestoneSpec parses "Name=weight[:kind[:category]]", filling kind
// and category from the type's default schedule when omitted.
func parseMilestoneSpec(spec string, def domain.Schedule) (domain.Milestone, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return domain.Milestone{}, fmt.Errorf("invalid milestone spec %q, expected name=weight[:kind[:category]]", spec)
	}
	name = strings.TrimSpace(name)

	parts := strings.Split(rest, ":")
	weight, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Milestone{}, fmt.Errorf("invalid weight in %q: %w", spec, err)
	}

	m := domain.Milestone{Name: name, Weight: weight}
	if base, ok := def.Find(name); ok {
		m.Kind = base.Kind
		m.Category = base.Category
	}
	if len(parts) > 1 && parts[1] != "" {
		m.Kind = domain.MilestoneKind(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 && parts[2] != "" {
		m.Category = domain.Category(strings.TrimSpace(parts[2]))
	}
	return m, nil
}

func newTemplateSetOverrideCmd(app *App) *cobra.Command {
	var project, itemType string
	var specs []string

	cmd := &cobra.Command{
		Use:   "set-override",
		Short: "Set a project-specific schedule override",
		Long: "Replaces weight (and optionally kind/category) of named milestones " +
			"for one project. Milestones not named keep their defaults; the " +
			"resolved weights must still sum to 100.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			def, err := app.Templates.Resolve(ctx, nil, itemType)
			if err != nil {
				return err
			}

			override := domain.Schedule{ItemType: itemType, ProjectID: &project}
			for _, spec := range specs {
				m, err := parseMilestoneSpec(spec, def)
				if err != nil {
					return err
				}
				override.Milestones = append(override.Milestones, m)
			}

			if err := app.Templates.PutOverride(ctx, override); err != nil {
				return err
			}

			fmt.Printf("Override for %s set on project %s (%d milestone(s))\n", itemType, project, len(specs))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&itemType, "type", "", "Item type")
	cmd.Flags().StringArrayVar(&specs, "milestone", nil, "Milestone spec name=weight[:kind[:category]], repeatable")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("milestone")

	return cmd
}

func newTemplateClearOverrideCmd(app *App) *cobra.Command {
	var project, itemType string

	cmd := &cobra.Command{
		Use:   "clear-override",
		Short: "Remove a project-specific schedule override",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Templates.DeleteOverride(context.Background(), project, itemType); err != nil {
				return err
			}
			fmt.Printf("Override for %s cleared on project %s\n", itemType, project)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&itemType, "type", "", "Item type")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
