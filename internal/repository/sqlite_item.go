package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
)

// itemColumns is the canonical SELECT column list for items.
const itemColumns = `id, project_id, tag, type, description, budgeted_hours,
		percent_complete, earned_hours, milestones,
		area_id, system_id, test_package_id, drawing_id, welder_id,
		retired_at, created_at, updated_at`

// SQLiteItemRepo implements ItemRepo over a SQLite handle or transaction.
type SQLiteItemRepo struct {
	db db.DBTX
}

// NewSQLiteItemRepo creates a new SQLiteItemRepo.
func NewSQLiteItemRepo(dbtx db.DBTX) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: dbtx}
}

func (r *SQLiteItemRepo) Create(ctx context.Context, item *domain.Item) error {
	milestonesJSON, err := encodeMilestones(item.Milestones)
	if err != nil {
		return err
	}
	query := `INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		item.ID,
		item.ProjectID,
		item.Tag,
		item.Type,
		item.Desc,
		item.BudgetedHours,
		item.PercentComplete,
		item.EarnedHours,
		milestonesJSON,
		nullableString(item.AreaID),
		nullableString(item.SystemID),
		nullableString(item.TestPackageID),
		nullableString(item.DrawingID),
		nullableString(item.WelderID),
		nullableTimeToString(item.RetiredAt, time.RFC3339),
		item.CreatedAt.Format(time.RFC3339),
		item.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

func (r *SQLiteItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	return r.scanItem(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteItemRepo) GetByTag(ctx context.Context, projectID, tag string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE project_id = ? AND tag = ?`
	return r.scanItem(r.db.QueryRowContext(ctx, query, projectID, tag))
}

func (r *SQLiteItemRepo) ListByProject(ctx context.Context, projectID string, includeRetired bool) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE project_id = ?`
	if !includeRetired {
		query += ` AND retired_at IS NULL`
	}
	query += ` ORDER BY tag`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing items by project: %w", err)
	}
	defer rows.Close()
	return r.scanItems(rows)
}

func (r *SQLiteItemRepo) ListByDimension(ctx context.Context, projectID string, dim domain.Dimension) ([]*domain.Item, error) {
	col, err := dimensionColumn(dim)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE project_id = ? AND ` + col + ` IS NOT NULL AND retired_at IS NULL
		ORDER BY ` + col + `, tag`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing items by dimension %s: %w", dim, err)
	}
	defer rows.Close()
	return r.scanItems(rows)
}

func (r *SQLiteItemRepo) ListByDimensionValue(ctx context.Context, projectID string, dim domain.Dimension, value string) ([]*domain.Item, error) {
	col, err := dimensionColumn(dim)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE project_id = ? AND ` + col + ` = ? AND retired_at IS NULL
		ORDER BY tag`
	rows, err := r.db.QueryContext(ctx, query, projectID, value)
	if err != nil {
		return nil, fmt.Errorf("listing items for %s=%s: %w", dim, value, err)
	}
	defer rows.Close()
	return r.scanItems(rows)
}

func (r *SQLiteItemRepo) Update(ctx context.Context, item *domain.Item) error {
	milestonesJSON, err := encodeMilestones(item.Milestones)
	if err != nil {
		return err
	}
	query := `UPDATE items SET project_id = ?, tag = ?, type = ?, description = ?,
		budgeted_hours = ?, percent_complete = ?, earned_hours = ?, milestones = ?,
		area_id = ?, system_id = ?, test_package_id = ?, drawing_id = ?, welder_id = ?,
		retired_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		item.ProjectID,
		item.Tag,
		item.Type,
		item.Desc,
		item.BudgetedHours,
		item.PercentComplete,
		item.EarnedHours,
		milestonesJSON,
		nullableString(item.AreaID),
		nullableString(item.SystemID),
		nullableString(item.TestPackageID),
		nullableString(item.DrawingID),
		nullableString(item.WelderID),
		nullableTimeToString(item.RetiredAt, time.RFC3339),
		item.UpdatedAt.Format(time.RFC3339),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("item %s: %w", item.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteItemRepo) Retire(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `UPDATE items SET retired_at = ?, updated_at = ? WHERE id = ? AND retired_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("retiring item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteItemRepo) scanItem(row *sql.Row) (*domain.Item, error) {
	item, err := scanItemFrom(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item: %w", ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (r *SQLiteItemRepo) scanItems(rows *sql.Rows) ([]*domain.Item, error) {
	var items []*domain.Item
	for rows.Next() {
		item, err := scanItemFrom(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// scanItemFrom scans one item row through the given Scan function, shared
// between *sql.Row and *sql.Rows.
func scanItemFrom(scan func(dest ...any) error) (*domain.Item, error) {
	var item domain.Item
	var milestonesJSON string
	var areaStr, systemStr, tpStr, drawingStr, welderStr, retiredAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := scan(
		&item.ID, &item.ProjectID, &item.Tag, &item.Type, &item.Desc, &item.BudgetedHours,
		&item.PercentComplete, &item.EarnedHours, &milestonesJSON,
		&areaStr, &systemStr, &tpStr, &drawingStr, &welderStr,
		&retiredAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	if err := json.Unmarshal([]byte(milestonesJSON), &item.Milestones); err != nil {
		return nil, fmt.Errorf("decoding cached milestones: %w", err)
	}
	item.AreaID = stringPtr(areaStr)
	item.SystemID = stringPtr(systemStr)
	item.TestPackageID = stringPtr(tpStr)
	item.DrawingID = stringPtr(drawingStr)
	item.WelderID = stringPtr(welderStr)
	item.RetiredAt = parseNullableTime(retiredAtStr, time.RFC3339)

	if item.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &item, nil
}

func encodeMilestones(m map[string]float64) (string, error) {
	if m == nil {
		m = map[string]float64{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding cached milestones: %w", err)
	}
	return string(data), nil
}

// dimensionColumn maps a reporting dimension to its items column. The
// mapping is fixed; anything else is a caller bug.
func dimensionColumn(dim domain.Dimension) (string, error) {
	switch dim {
	case domain.DimensionArea:
		return "area_id", nil
	case domain.DimensionSystem:
		return "system_id", nil
	case domain.DimensionTestPackage:
		return "test_package_id", nil
	case domain.DimensionWelder:
		return "welder_id", nil
	default:
		return "", fmt.Errorf("unknown dimension %q", dim)
	}
}
