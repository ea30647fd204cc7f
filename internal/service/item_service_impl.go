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

type itemService struct {
	items     repository.ItemRepo
	templates TemplateService
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewItemService(items repository.ItemRepo, templates TemplateService, uow db.UnitOfWork, observers ...UseCaseObserver) ItemService {
	return &itemService{
		items:     items,
		templates: templates,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Create saves a new item. The item's type must resolve to a schedule for
// its project before first save; cached figures are computed from any
// initial milestone values so the item never carries stale zeros.
func (s *itemService) Create(ctx context.Context, item *domain.Item) (err error) {
	startedAt := time.Now().UTC()
	defer s.observe(ctx, "item-create", startedAt, map[string]any{"project": item.ProjectID, "tag": item.Tag}, &err)

	if item.ProjectID == "" {
		return fmt.Errorf("item project id is required")
	}
	if item.Tag == "" {
		return fmt.Errorf("item tag is required")
	}
	if !domain.ValidItemTypes[item.Type] {
		return fmt.Errorf("unknown item type %q", item.Type)
	}
	if item.BudgetedHours < 0 {
		return fmt.Errorf("budgeted hours %.2f is negative", item.BudgetedHours)
	}

	sched, err := s.templates.Resolve(ctx, &item.ProjectID, item.Type)
	if err != nil {
		return fmt.Errorf("resolving schedule for %s: %w", item.Type, err)
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Milestones == nil {
		item.Milestones = map[string]float64{}
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	b, err := progress.Compute(sched, item.Milestones, item.BudgetedHours)
	if err != nil {
		return err
	}
	item.PercentComplete = b.Percent
	item.EarnedHours = b.Earned

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txRollups := repository.NewSQLiteRollupRepo(tx)
		if err := txItems.Create(ctx, item); err != nil {
			return err
		}
		return refreshItemRollups(ctx, txItems, txRollups, item)
	})
}

func (s *itemService) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *itemService) GetByTag(ctx context.Context, projectID, tag string) (*domain.Item, error) {
	return s.items.GetByTag(ctx, projectID, tag)
}

func (s *itemService) ListByProject(ctx context.Context, projectID string, includeRetired bool) ([]*domain.Item, error) {
	return s.items.ListByProject(ctx, projectID, includeRetired)
}

// Retire flags the item and drops it out of the rollup cache. The item row
// and its event history stay.
func (s *itemService) Retire(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer s.observe(ctx, "item-retire", startedAt, map[string]any{"item": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txRollups := repository.NewSQLiteRollupRepo(tx)

		if err := txItems.Retire(ctx, id); err != nil {
			return err
		}
		item, err := txItems.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return refreshItemRollups(ctx, txItems, txRollups, item)
	})
}

// Progress computes the item's current breakdown and verifies that the
// category totals reconcile with the overall earned figure. On an
// ErrInvariantViolation the breakdown is still returned so the caller can
// show both sides of the divergence.
func (s *itemService) Progress(ctx context.Context, id string) (progress.Breakdown, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return progress.Breakdown{}, err
	}

	sched, err := s.templates.Resolve(ctx, &item.ProjectID, item.Type)
	if err != nil {
		return progress.Breakdown{}, err
	}

	b, err := progress.Compute(sched, item.Milestones, item.BudgetedHours)
	if err != nil {
		return progress.Breakdown{}, err
	}
	if len(b.Unknown) > 0 {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "item-progress-unknown-milestones",
			Success:   true,
			Fields:    map[string]any{"item": id, "unknown": b.Unknown},
			StartedAt: time.Now().UTC(),
		})
	}
	return b, progress.CheckReconciliation(b)
}

func (s *itemService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
		StartedAt: startedAt,
	})
}
