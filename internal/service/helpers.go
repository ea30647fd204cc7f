package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/progress"
	"github.com/mhollis/spooltally/internal/repository"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// resolveSchedule merges default and override through the same transaction
// the caller is writing in, so a concurrent template edit cannot slip
// between the read and the write.
func resolveSchedule(ctx context.Context, tx db.DBTX, projectID, itemType string) (domain.Schedule, error) {
	schedules := repository.NewSQLiteScheduleRepo(tx)

	def, err := schedules.GetDefault(ctx, itemType)
	if err != nil {
		if isNotFound(err) {
			return domain.Schedule{}, fmt.Errorf("no default schedule for item type %q: %w", itemType, err)
		}
		return domain.Schedule{}, err
	}

	override, err := schedules.GetOverride(ctx, projectID, itemType)
	if err != nil && !isNotFound(err) {
		return domain.Schedule{}, err
	}
	return progress.Resolve(*def, override)
}

// refreshItemRollups recomputes the rollup row for every dimension value
// the item is assigned to, from current item state. Runs inside the same
// transaction as the write that moved the item.
func refreshItemRollups(ctx context.Context, items repository.ItemRepo, rollups repository.RollupRepo, item *domain.Item) error {
	for _, dim := range []domain.Dimension{
		domain.DimensionArea, domain.DimensionSystem, domain.DimensionTestPackage, domain.DimensionWelder,
	} {
		value := item.DimensionValue(dim)
		if value == nil {
			continue
		}
		peers, err := items.ListByDimensionValue(ctx, item.ProjectID, dim, *value)
		if err != nil {
			return err
		}
		if err := rollups.Upsert(ctx, rollupRowFor(item.ProjectID, dim, *value, peers)); err != nil {
			return err
		}
	}
	return nil
}

// rollupRowFor folds a set of items sharing one dimension value into one
// cache row.
func rollupRowFor(projectID string, dim domain.Dimension, value string, items []*domain.Item) domain.RollupRow {
	row := domain.RollupRow{
		ProjectID:      projectID,
		Dimension:      dim,
		DimensionValue: value,
		UpdatedAt:      time.Now().UTC(),
	}
	for _, item := range items {
		row.BudgetedHours += item.BudgetedHours
		row.EarnedHours += item.EarnedHours
		row.ItemCount++
	}
	return row
}

// groupWindowChanges folds an item's in-window events (in write order) into
// per-milestone start/end values: previous_value of the first event, value
// of the last.
func groupWindowChanges(events []*domain.MilestoneEvent) map[string]progress.WindowChange {
	changes := make(map[string]progress.WindowChange)
	for _, e := range events {
		ch, seen := changes[e.Milestone]
		if !seen {
			ch.Start = e.PrevValue
		}
		ch.End = e.NewValue
		changes[e.Milestone] = ch
	}
	return changes
}
