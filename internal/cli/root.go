package cli

import (
	"github.com/mhollis/spooltally/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Templates service.TemplateService
	Items     service.ItemService
	Progress  service.ProgressService
	Reports   service.ReportService
	Import    service.ImportService

	// Actor recorded on milestone events when --actor is not given.
	DefaultActor string

	// IsInteractive reports whether stdin is a terminal, enabling wizard
	// prompts when flags are omitted.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "spooltally" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "spooltally",
		Short: "Earned-hours progress tracking for piping construction",
	}

	root.AddCommand(
		newTemplateCmd(app),
		newItemCmd(app),
		newProgressCmd(app),
		newReportCmd(app),
	)

	return root
}
