package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/repository"
	"github.com/mhollis/spooltally/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full service stack against an in-memory database with
// the stock default schedules seeded.
type testEnv struct {
	db          *sql.DB
	uow         db.UnitOfWork
	itemRepo    *repository.SQLiteItemRepo
	eventRepo   *repository.SQLiteEventRepo
	rollupRepo  *repository.SQLiteRollupRepo
	templates   TemplateService
	items       ItemService
	progressSvc ProgressService
	reports     ReportService
	importSvc   ImportService
}

func newTestEnv(t *testing.T) (*testEnv, context.Context) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	env := &testEnv{
		db:         database,
		uow:        uow,
		itemRepo:   repository.NewSQLiteItemRepo(database),
		eventRepo:  repository.NewSQLiteEventRepo(database),
		rollupRepo: repository.NewSQLiteRollupRepo(database),
	}
	env.templates = NewTemplateService(repository.NewSQLiteScheduleRepo(database), uow)
	env.items = NewItemService(env.itemRepo, env.templates, uow)
	env.progressSvc = NewProgressService(env.itemRepo, uow)
	env.reports = NewReportService(env.rollupRepo, uow)
	env.importSvc = NewImportService(uow)

	ctx := context.Background()
	require.NoError(t, env.templates.PutDefault(ctx, testutil.SpoolSchedule()))
	require.NoError(t, env.templates.PutDefault(ctx, testutil.WeldSchedule()))
	require.NoError(t, env.templates.PutDefault(ctx, testutil.ThreadedSchedule()))
	return env, ctx
}
