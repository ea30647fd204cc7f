package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/importer"
	"github.com/mhollis/spooltally/internal/progress"
	"github.com/mhollis/spooltally/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, path, actor string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportBatch(ctx, schema, actor)
}

func (s *importService) ImportBatch(ctx context.Context, schema *importer.ImportSchema, actor string) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	defer s.observe(ctx, "import-batch", startedAt, map[string]any{"project": schema.ProjectID, "items": len(schema.Items)}, &err)

	if actor == "" {
		return nil, fmt.Errorf("actor is required")
	}
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	batch := importer.Convert(schema)

	pendingByItem := make(map[string][]importer.PendingProgress)
	for _, p := range batch.Progress {
		pendingByItem[p.ItemID] = append(pendingByItem[p.ItemID], p)
	}

	eventCount := 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)
		txRollups := repository.NewSQLiteRollupRepo(tx)

		for _, item := range batch.Items {
			sched, err := resolveSchedule(ctx, tx, item.ProjectID, item.Type)
			if err != nil {
				return fmt.Errorf("item %s: %w", item.Tag, err)
			}

			for _, p := range pendingByItem[item.ID] {
				entry, ok := sched.Find(p.Milestone)
				if !ok {
					return fmt.Errorf("item %s: milestone %q is not in the %s schedule", item.Tag, p.Milestone, item.Type)
				}
				value, err := domain.NormalizeValue(p.RawValue, entry.Kind)
				if err != nil {
					return fmt.Errorf("item %s, milestone %s: %w", item.Tag, entry.Name, err)
				}

				event := &domain.MilestoneEvent{
					ID:         uuid.New().String(),
					ItemID:     item.ID,
					Milestone:  entry.Name,
					PrevValue:  item.MilestoneValue(entry.Name),
					NewValue:   value,
					Actor:      actor,
					Note:       p.Note,
					RecordedAt: time.Now().UTC(),
				}
				if err := txEvents.Append(ctx, event); err != nil {
					return err
				}
				item.Milestones[entry.Name] = value
				eventCount++
			}

			b, err := progress.Compute(sched, item.Milestones, item.BudgetedHours)
			if err != nil {
				return err
			}
			if err := progress.CheckReconciliation(b); err != nil {
				return fmt.Errorf("item %s: %w", item.Tag, err)
			}
			item.PercentComplete = b.Percent
			item.EarnedHours = b.Earned

			if err := txItems.Create(ctx, item); err != nil {
				return fmt.Errorf("creating item %s: %w", item.Tag, err)
			}
		}

		// A second pass, once every item of the batch exists, so rollup
		// rows count all peers on each dimension value.
		for _, item := range batch.Items {
			if err := refreshItemRollups(ctx, txItems, txRollups, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		ProjectID:  batch.ProjectID,
		ItemCount:  len(batch.Items),
		EventCount: eventCount,
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

func (s *importService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
		StartedAt: startedAt,
	})
}
