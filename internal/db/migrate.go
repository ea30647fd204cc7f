package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER
// TABLE additions tolerate re-runs.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL,
		tag              TEXT NOT NULL,
		type             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		budgeted_hours   REAL NOT NULL DEFAULT 0,
		percent_complete REAL NOT NULL DEFAULT 0,
		earned_hours     REAL NOT NULL DEFAULT 0,
		milestones       TEXT NOT NULL DEFAULT '{}',
		area_id          TEXT,
		system_id        TEXT,
		test_package_id  TEXT,
		drawing_id       TEXT,
		welder_id        TEXT,
		retired_at       TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		UNIQUE (project_id, tag)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_area ON items(project_id, area_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_system ON items(project_id, system_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_test_package ON items(project_id, test_package_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_welder ON items(project_id, welder_id)`,

	`CREATE TABLE IF NOT EXISTS milestone_schedules (
		id         TEXT PRIMARY KEY,
		item_type  TEXT NOT NULL,
		project_id TEXT,
		milestone  TEXT NOT NULL,
		weight     REAL NOT NULL,
		kind       TEXT NOT NULL
		           CHECK (kind IN ('discrete','partial')),
		category   TEXT NOT NULL
		           CHECK (category IN ('receive','install','punch','test','restore')),
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// Default rows (project_id IS NULL) and override rows need separate
	// uniqueness: SQLite treats NULLs as distinct in plain UNIQUE.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_schedules_default
		ON milestone_schedules(item_type, milestone) WHERE project_id IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_schedules_override
		ON milestone_schedules(item_type, project_id, milestone) WHERE project_id IS NOT NULL`,

	// seq orders events within a timestamp tie; recorded_at drives window
	// scans. Rows are append-only and never updated or deleted.
	`CREATE TABLE IF NOT EXISTS milestone_events (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		item_id     TEXT NOT NULL REFERENCES items(id),
		milestone   TEXT NOT NULL,
		prev_value  REAL NOT NULL,
		new_value   REAL NOT NULL,
		actor       TEXT NOT NULL,
		correction  INTEGER NOT NULL DEFAULT 0,
		note        TEXT NOT NULL DEFAULT '',
		recorded_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_item_milestone
		ON milestone_events(item_id, milestone, recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_recorded
		ON milestone_events(recorded_at)`,

	`CREATE TABLE IF NOT EXISTS dimension_rollups (
		project_id      TEXT NOT NULL,
		dimension       TEXT NOT NULL,
		dimension_value TEXT NOT NULL,
		budgeted_hours  REAL NOT NULL DEFAULT 0,
		earned_hours    REAL NOT NULL DEFAULT 0,
		item_count      INTEGER NOT NULL DEFAULT 0,
		updated_at      TEXT NOT NULL,
		PRIMARY KEY (project_id, dimension, dimension_value)
	)`,
}
