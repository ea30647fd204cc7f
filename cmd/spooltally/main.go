package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/mhollis/spooltally/internal/cli"
	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/repository"
	"github.com/mhollis/spooltally/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.spooltally/spooltally.db
	dbPath := os.Getenv("SPOOLTALLY_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".spooltally", "spooltally.db")
	}

	// Determine seed schedule directory
	templateDir := os.Getenv("SPOOLTALLY_TEMPLATES")
	if templateDir == "" {
		// Check for ./templates in current directory first (development)
		if stat, err := os.Stat("./templates"); err == nil && stat.IsDir() {
			templateDir = "./templates"
		} else {
			// Fall back to ~/.spooltally/templates (production)
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}
			templateDir = filepath.Join(home, ".spooltally", "templates")
		}
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Use-case telemetry to stderr when asked for.
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("SPOOLTALLY_LOG") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	itemRepo := repository.NewSQLiteItemRepo(database)
	rollupRepo := repository.NewSQLiteRollupRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	templateSvc := service.NewTemplateService(scheduleRepo, uow, observer)

	// Seed default schedules on first run so a fresh install can add items
	// without a manual seed step.
	ctx := context.Background()
	if types, err := templateSvc.ListTypes(ctx); err == nil && len(types) == 0 {
		if stat, err := os.Stat(templateDir); err == nil && stat.IsDir() {
			if _, err := templateSvc.SeedFromDir(ctx, templateDir); err != nil {
				return fmt.Errorf("seeding default schedules: %w", err)
			}
		}
	}

	actor := os.Getenv("SPOOLTALLY_ACTOR")
	if actor == "" {
		actor = os.Getenv("USER")
	}

	app := &cli.App{
		Templates:    templateSvc,
		Items:        service.NewItemService(itemRepo, templateSvc, uow, observer),
		Progress:     service.NewProgressService(itemRepo, uow, observer),
		Reports:      service.NewReportService(rollupRepo, uow, observer),
		Import:       service.NewImportService(uow, observer),
		DefaultActor: actor,
	}

	// Detect interactive terminal for wizard prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
