package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
)

// SQLiteRollupRepo implements RollupRepo over the dimension_rollups cache
// table. Rows are a derived projection of items and safe to delete and
// rebuild wholesale.
type SQLiteRollupRepo struct {
	db db.DBTX
}

// NewSQLiteRollupRepo creates a new SQLiteRollupRepo.
func NewSQLiteRollupRepo(dbtx db.DBTX) *SQLiteRollupRepo {
	return &SQLiteRollupRepo{db: dbtx}
}

func (r *SQLiteRollupRepo) Upsert(ctx context.Context, row domain.RollupRow) error {
	query := `INSERT INTO dimension_rollups
		(project_id, dimension, dimension_value, budgeted_hours, earned_hours, item_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, dimension, dimension_value) DO UPDATE SET
			budgeted_hours = excluded.budgeted_hours,
			earned_hours = excluded.earned_hours,
			item_count = excluded.item_count,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		row.ProjectID,
		string(row.Dimension),
		row.DimensionValue,
		row.BudgetedHours,
		row.EarnedHours,
		row.ItemCount,
		row.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting rollup row: %w", err)
	}
	return nil
}

func (r *SQLiteRollupRepo) Get(ctx context.Context, projectID string, dim domain.Dimension, value string) (*domain.RollupRow, error) {
	query := `SELECT project_id, dimension, dimension_value, budgeted_hours, earned_hours, item_count, updated_at
		FROM dimension_rollups
		WHERE project_id = ? AND dimension = ? AND dimension_value = ?`
	row, err := scanRollup(r.db.QueryRowContext(ctx, query, projectID, string(dim), value))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("rollup %s/%s/%s: %w", projectID, dim, value, ErrNotFound)
		}
		return nil, err
	}
	return row, nil
}

func (r *SQLiteRollupRepo) ListByDimension(ctx context.Context, projectID string, dim domain.Dimension) ([]domain.RollupRow, error) {
	query := `SELECT project_id, dimension, dimension_value, budgeted_hours, earned_hours, item_count, updated_at
		FROM dimension_rollups
		WHERE project_id = ? AND dimension = ?
		ORDER BY dimension_value`
	rows, err := r.db.QueryContext(ctx, query, projectID, string(dim))
	if err != nil {
		return nil, fmt.Errorf("listing rollups for %s/%s: %w", projectID, dim, err)
	}
	defer rows.Close()

	var result []domain.RollupRow
	for rows.Next() {
		var row domain.RollupRow
		var dimStr, updatedAtStr string
		if err := rows.Scan(&row.ProjectID, &dimStr, &row.DimensionValue,
			&row.BudgetedHours, &row.EarnedHours, &row.ItemCount, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning rollup row: %w", err)
		}
		row.Dimension = domain.Dimension(dimStr)
		if row.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("parsing rollup updated_at: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rollup rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRollupRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM dimension_rollups WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing rollups for %s: %w", projectID, err)
	}
	return nil
}

func scanRollup(row *sql.Row) (*domain.RollupRow, error) {
	var r domain.RollupRow
	var dimStr, updatedAtStr string
	err := row.Scan(&r.ProjectID, &dimStr, &r.DimensionValue,
		&r.BudgetedHours, &r.EarnedHours, &r.ItemCount, &updatedAtStr)
	if err != nil {
		return nil, err
	}
	r.Dimension = domain.Dimension(dimStr)
	if r.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing rollup updated_at: %w", err)
	}
	return &r, nil
}
