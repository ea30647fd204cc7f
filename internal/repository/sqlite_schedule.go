package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
)

// SQLiteScheduleRepo implements ScheduleRepo. A schedule is stored as one
// row per milestone; default rows carry a NULL project_id, override rows a
// project id. Assembly keeps the stored position order.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(dbtx db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: dbtx}
}

func (r *SQLiteScheduleRepo) GetDefault(ctx context.Context, itemType string) (*domain.Schedule, error) {
	query := `SELECT milestone, weight, kind, category FROM milestone_schedules
		WHERE item_type = ? AND project_id IS NULL
		ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, itemType)
	if err != nil {
		return nil, fmt.Errorf("loading default schedule for %s: %w", itemType, err)
	}
	defer rows.Close()

	milestones, err := scanMilestones(rows)
	if err != nil {
		return nil, err
	}
	if len(milestones) == 0 {
		return nil, fmt.Errorf("default schedule for %s: %w", itemType, ErrNotFound)
	}
	return &domain.Schedule{ItemType: itemType, Milestones: milestones}, nil
}

func (r *SQLiteScheduleRepo) GetOverride(ctx context.Context, projectID, itemType string) (*domain.Schedule, error) {
	query := `SELECT milestone, weight, kind, category FROM milestone_schedules
		WHERE item_type = ? AND project_id = ?
		ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, itemType, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading override schedule for %s/%s: %w", projectID, itemType, err)
	}
	defer rows.Close()

	milestones, err := scanMilestones(rows)
	if err != nil {
		return nil, err
	}
	if len(milestones) == 0 {
		return nil, fmt.Errorf("override schedule for %s/%s: %w", projectID, itemType, ErrNotFound)
	}
	pid := projectID
	return &domain.Schedule{ItemType: itemType, ProjectID: &pid, Milestones: milestones}, nil
}

func (r *SQLiteScheduleRepo) ListDefaultTypes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT item_type FROM milestone_schedules
		WHERE project_id IS NULL ORDER BY item_type`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing default schedule types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning schedule type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule types: %w", err)
	}
	return types, nil
}

func (r *SQLiteScheduleRepo) ListOverrides(ctx context.Context, projectID string) ([]*domain.Schedule, error) {
	query := `SELECT DISTINCT item_type FROM milestone_schedules
		WHERE project_id = ? ORDER BY item_type`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing overrides for %s: %w", projectID, err)
	}
	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning override type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating override types: %w", err)
	}
	rows.Close()

	schedules := make([]*domain.Schedule, 0, len(types))
	for _, t := range types {
		s, err := r.GetOverride(ctx, projectID, t)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

func (r *SQLiteScheduleRepo) ListProjectsWithOverride(ctx context.Context, itemType string) ([]string, error) {
	query := `SELECT DISTINCT project_id FROM milestone_schedules
		WHERE item_type = ? AND project_id IS NOT NULL ORDER BY project_id`
	rows, err := r.db.QueryContext(ctx, query, itemType)
	if err != nil {
		return nil, fmt.Errorf("listing override projects for %s: %w", itemType, err)
	}
	defer rows.Close()

	var projects []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning override project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating override projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteScheduleRepo) PutDefault(ctx context.Context, sched domain.Schedule) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM milestone_schedules WHERE item_type = ? AND project_id IS NULL`,
		sched.ItemType); err != nil {
		return fmt.Errorf("clearing default schedule for %s: %w", sched.ItemType, err)
	}
	return r.insertRows(ctx, sched, nil)
}

func (r *SQLiteScheduleRepo) PutOverride(ctx context.Context, sched domain.Schedule) error {
	if sched.ProjectID == nil {
		return fmt.Errorf("override schedule for %s has no project id", sched.ItemType)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM milestone_schedules WHERE item_type = ? AND project_id = ?`,
		sched.ItemType, *sched.ProjectID); err != nil {
		return fmt.Errorf("clearing override schedule for %s/%s: %w", *sched.ProjectID, sched.ItemType, err)
	}
	return r.insertRows(ctx, sched, sched.ProjectID)
}

func (r *SQLiteScheduleRepo) DeleteOverride(ctx context.Context, projectID, itemType string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM milestone_schedules WHERE item_type = ? AND project_id = ?`,
		itemType, projectID)
	if err != nil {
		return fmt.Errorf("deleting override schedule for %s/%s: %w", projectID, itemType, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("override schedule for %s/%s: %w", projectID, itemType, ErrNotFound)
	}
	return nil
}

func (r *SQLiteScheduleRepo) insertRows(ctx context.Context, sched domain.Schedule, projectID *string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	for pos, m := range sched.Milestones {
		_, err := r.db.ExecContext(ctx, `INSERT INTO milestone_schedules
			(id, item_type, project_id, milestone, weight, kind, category, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(),
			sched.ItemType,
			nullableString(projectID),
			m.Name,
			m.Weight,
			string(m.Kind),
			string(m.Category),
			pos,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("inserting schedule row %s/%s: %w", sched.ItemType, m.Name, err)
		}
	}
	return nil
}

func scanMilestones(rows *sql.Rows) ([]domain.Milestone, error) {
	var milestones []domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		var kindStr, catStr string
		if err := rows.Scan(&m.Name, &m.Weight, &kindStr, &catStr); err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		m.Kind = domain.MilestoneKind(kindStr)
		m.Category = domain.Category(catStr)
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule rows: %w", err)
	}
	return milestones, nil
}
