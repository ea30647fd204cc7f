package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CreatesAllTables(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"items", "milestone_schedules", "milestone_events", "dimension_rollups"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// Re-running against an up-to-date schema must be a no-op.
	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestMigrate_DefaultScheduleUniqueness(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	insert := `INSERT INTO milestone_schedules
		(id, item_type, project_id, milestone, weight, kind, category, position, created_at, updated_at)
		VALUES (?, 'spool', NULL, 'Erect', 40, 'discrete', 'install', 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`

	_, err = database.Exec(insert, "a")
	require.NoError(t, err)

	// NULL project ids must not slip past uniqueness for default rows.
	_, err = database.Exec(insert, "b")
	require.Error(t, err)
}
