package repository

import (
	"context"
	"time"

	"github.com/mhollis/spooltally/internal/domain"
)

type ItemRepo interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	GetByTag(ctx context.Context, projectID, tag string) (*domain.Item, error)
	ListByProject(ctx context.Context, projectID string, includeRetired bool) ([]*domain.Item, error)
	ListByDimension(ctx context.Context, projectID string, dim domain.Dimension) ([]*domain.Item, error)
	ListByDimensionValue(ctx context.Context, projectID string, dim domain.Dimension, value string) ([]*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Retire(ctx context.Context, id string) error
}

type ScheduleRepo interface {
	GetDefault(ctx context.Context, itemType string) (*domain.Schedule, error)
	GetOverride(ctx context.Context, projectID, itemType string) (*domain.Schedule, error)
	ListDefaultTypes(ctx context.Context) ([]string, error)
	ListOverrides(ctx context.Context, projectID string) ([]*domain.Schedule, error)
	ListProjectsWithOverride(ctx context.Context, itemType string) ([]string, error)
	PutDefault(ctx context.Context, sched domain.Schedule) error
	PutOverride(ctx context.Context, sched domain.Schedule) error
	DeleteOverride(ctx context.Context, projectID, itemType string) error
}

type EventRepo interface {
	Append(ctx context.Context, e *domain.MilestoneEvent) error
	ListByItem(ctx context.Context, itemID string) ([]*domain.MilestoneEvent, error)
	ListByItemUntil(ctx context.Context, itemID string, end time.Time) ([]*domain.MilestoneEvent, error)
	ListByItemInWindow(ctx context.Context, itemID string, start, end time.Time) ([]*domain.MilestoneEvent, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
}

type RollupRepo interface {
	Upsert(ctx context.Context, row domain.RollupRow) error
	Get(ctx context.Context, projectID string, dim domain.Dimension, value string) (*domain.RollupRow, error)
	ListByDimension(ctx context.Context, projectID string, dim domain.Dimension) ([]domain.RollupRow, error)
	DeleteByProject(ctx context.Context, projectID string) error
}
