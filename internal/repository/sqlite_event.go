package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
)

const eventColumns = `id, item_id, milestone, prev_value, new_value, actor, correction, note, recorded_at`

// SQLiteEventRepo implements EventRepo. The milestone_events table is
// append-only: there is deliberately no Update or Delete here. Rows come
// back in seq order, the order they were written.
type SQLiteEventRepo struct {
	db db.DBTX
}

// NewSQLiteEventRepo creates a new SQLiteEventRepo.
func NewSQLiteEventRepo(dbtx db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: dbtx}
}

func (r *SQLiteEventRepo) Append(ctx context.Context, e *domain.MilestoneEvent) error {
	query := `INSERT INTO milestone_events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ItemID,
		e.Milestone,
		e.PrevValue,
		e.NewValue,
		e.Actor,
		boolToInt(e.Correction),
		e.Note,
		e.RecordedAt.UTC().Format(eventTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("appending milestone event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepo) ListByItem(ctx context.Context, itemID string) ([]*domain.MilestoneEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM milestone_events
		WHERE item_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing events for item %s: %w", itemID, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *SQLiteEventRepo) ListByItemUntil(ctx context.Context, itemID string, end time.Time) ([]*domain.MilestoneEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM milestone_events
		WHERE item_id = ? AND recorded_at < ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, itemID, end.UTC().Format(eventTimeLayout))
	if err != nil {
		return nil, fmt.Errorf("listing events for item %s until %s: %w", itemID, end, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *SQLiteEventRepo) ListByItemInWindow(ctx context.Context, itemID string, start, end time.Time) ([]*domain.MilestoneEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM milestone_events
		WHERE item_id = ? AND recorded_at >= ? AND recorded_at < ?
		ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, itemID,
		start.UTC().Format(eventTimeLayout), end.UTC().Format(eventTimeLayout))
	if err != nil {
		return nil, fmt.Errorf("listing events for item %s in window: %w", itemID, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *SQLiteEventRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM milestone_events WHERE item_id = ?`, itemID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting events for item %s: %w", itemID, err)
	}
	return count, nil
}

func scanEvents(rows *sql.Rows) ([]*domain.MilestoneEvent, error) {
	var events []*domain.MilestoneEvent
	for rows.Next() {
		var e domain.MilestoneEvent
		var correctionInt int
		var recordedAtStr string
		err := rows.Scan(
			&e.ID, &e.ItemID, &e.Milestone, &e.PrevValue, &e.NewValue,
			&e.Actor, &correctionInt, &e.Note, &recordedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning milestone event: %w", err)
		}
		e.Correction = intToBool(correctionInt)
		if e.RecordedAt, err = time.Parse(eventTimeLayout, recordedAtStr); err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestone events: %w", err)
	}
	return events, nil
}
