package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/progress"
	"github.com/mhollis/spooltally/internal/repository"
)

type progressService struct {
	items    repository.ItemRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgressService(items repository.ItemRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProgressService {
	return &progressService{
		items:    items,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Record appends one milestone event and updates the item's cached figures
// and rollup rows in the same transaction. The event log never gains an
// entry the projections did not absorb, and vice versa.
func (s *progressService) Record(ctx context.Context, req RecordRequest) (event *domain.MilestoneEvent, err error) {
	startedAt := time.Now().UTC()
	defer s.observe(ctx, "progress-record", startedAt, map[string]any{"item": req.ItemID, "milestone": req.Milestone}, &err)

	if req.Actor == "" {
		return nil, fmt.Errorf("actor is required")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)
		txRollups := repository.NewSQLiteRollupRepo(tx)

		item, err := txItems.GetByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if item.Retired() {
			return fmt.Errorf("item %s is retired", item.Tag)
		}

		sched, err := resolveSchedule(ctx, tx, item.ProjectID, item.Type)
		if err != nil {
			return err
		}

		// Unknown milestone names are rejected here, at the write edge.
		// Read paths tolerate them because the schedule may have changed
		// after events were recorded.
		entry, ok := sched.Find(req.Milestone)
		if !ok {
			return fmt.Errorf("milestone %q is not in the %s schedule", req.Milestone, item.Type)
		}

		value, err := domain.NormalizeValue(req.RawValue, entry.Kind)
		if err != nil {
			return err
		}

		prev := item.MilestoneValue(entry.Name)
		event = &domain.MilestoneEvent{
			ID:         uuid.New().String(),
			ItemID:     item.ID,
			Milestone:  entry.Name,
			PrevValue:  prev,
			NewValue:   value,
			Actor:      req.Actor,
			Correction: req.Correction,
			Note:       req.Note,
			RecordedAt: time.Now().UTC(),
		}
		if err := txEvents.Append(ctx, event); err != nil {
			return err
		}

		if item.Milestones == nil {
			item.Milestones = map[string]float64{}
		}
		item.Milestones[entry.Name] = value

		b, err := progress.Compute(sched, item.Milestones, item.BudgetedHours)
		if err != nil {
			return err
		}
		if err := progress.CheckReconciliation(b); err != nil {
			return err
		}
		item.PercentComplete = b.Percent
		item.EarnedHours = b.Earned
		item.UpdatedAt = event.RecordedAt

		if err := txItems.Update(ctx, item); err != nil {
			return err
		}
		return refreshItemRollups(ctx, txItems, txRollups, item)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// RebuildItem discards the item's cached milestone map and reconstructs it
// by replaying the full event log from empty state.
func (s *progressService) RebuildItem(ctx context.Context, itemID string) (item *domain.Item, err error) {
	startedAt := time.Now().UTC()
	defer s.observe(ctx, "progress-rebuild-item", startedAt, map[string]any{"item": itemID}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)
		txRollups := repository.NewSQLiteRollupRepo(tx)

		item, err = txItems.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		sched, err := resolveSchedule(ctx, tx, item.ProjectID, item.Type)
		if err != nil {
			return err
		}
		events, err := txEvents.ListByItem(ctx, itemID)
		if err != nil {
			return err
		}

		item.Milestones = domain.ReplayValues(events)
		b, err := progress.Compute(sched, item.Milestones, item.BudgetedHours)
		if err != nil {
			return err
		}
		item.PercentComplete = b.Percent
		item.EarnedHours = b.Earned
		item.UpdatedAt = time.Now().UTC()

		if err := txItems.Update(ctx, item); err != nil {
			return err
		}
		return refreshItemRollups(ctx, txItems, txRollups, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RebuildRollups wipes a project's rollup rows and recomputes them from
// the current item projections.
func (s *progressService) RebuildRollups(ctx context.Context, projectID string) (err error) {
	startedAt := time.Now().UTC()
	defer s.observe(ctx, "progress-rebuild-rollups", startedAt, map[string]any{"project": projectID}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txRollups := repository.NewSQLiteRollupRepo(tx)

		if err := txRollups.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		items, err := txItems.ListByProject(ctx, projectID, false)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := refreshItemRollups(ctx, txItems, txRollups, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *progressService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
		StartedAt: startedAt,
	})
}
