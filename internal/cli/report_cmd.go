package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mhollis/spooltally/internal/cli/formatter"
	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/service"
	"github.com/spf13/cobra"
)

func parseDimension(by string) (domain.Dimension, error) {
	dim := domain.Dimension(by)
	if !domain.ValidDimensions[dim] {
		return "", fmt.Errorf("unknown dimension %q (area|system|test_package|welder)", by)
	}
	return dim, nil
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Progress and earned-hours reports",
	}

	cmd.AddCommand(
		newReportSnapshotCmd(app),
		newReportDeltaCmd(app),
		newReportCheckCmd(app),
	)

	return cmd
}

func newReportSnapshotCmd(app *App) *cobra.Command {
	var project, by string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show current earned hours grouped by a dimension",
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := parseDimension(by)
			if err != nil {
				return err
			}
			rows, err := app.Reports.Snapshot(context.Background(), project, dim)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Printf("No items assigned to any %s.\n", dim)
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatSnapshot(dim, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&by, "by", "area", "Dimension (area|system|test_package|welder)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newReportDeltaCmd(app *App) *cobra.Command {
	var project, by, from, to string

	cmd := &cobra.Command{
		Use:   "delta",
		Short: "Show earned-hour movement over a period",
		Long: "Reconstructs the period's movement from the event log. The window " +
			"is half-open: events on the from date count, events on the to date " +
			"do not.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := parseDimension(by)
			if err != nil {
				return err
			}
			start, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fmt.Errorf("invalid from date %q: %w", from, err)
			}
			end, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fmt.Errorf("invalid to date %q: %w", to, err)
			}

			report, err := app.Reports.Delta(context.Background(), service.DeltaRequest{
				ProjectID: project,
				Dimension: dim,
				Start:     start,
				End:       end,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatDelta(dim, from, to, report))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&by, "by", "area", "Dimension (area|system|test_package|welder)")
	cmd.Flags().StringVar(&from, "from", "", "Window start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "Window end date (YYYY-MM-DD, exclusive)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newReportCheckCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sweep a project for integrity problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Reports.Check(context.Background(), project)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatIntegrity(project, report))
			if !report.Clean() {
				return fmt.Errorf("integrity check found problems")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
