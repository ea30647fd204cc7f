package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/spooltally/internal/domain"
)

var testTagCounter atomic.Int64

// Item options
type ItemOption func(*domain.Item)

func WithBudget(hours float64) ItemOption {
	return func(i *domain.Item) {
		i.BudgetedHours = hours
	}
}

func WithArea(area string) ItemOption {
	return func(i *domain.Item) {
		i.AreaID = &area
	}
}

func WithSystem(system string) ItemOption {
	return func(i *domain.Item) {
		i.SystemID = &system
	}
}

func WithTestPackage(tp string) ItemOption {
	return func(i *domain.Item) {
		i.TestPackageID = &tp
	}
}

func WithWelder(welder string) ItemOption {
	return func(i *domain.Item) {
		i.WelderID = &welder
	}
}

func WithTag(tag string) ItemOption {
	return func(i *domain.Item) {
		i.Tag = tag
	}
}

// NewTestItem builds an item of the given type in the given project with a
// fresh unique tag. Defaults: 10 budgeted hours, no dimensions, no progress.
func NewTestItem(projectID, itemType string, opts ...ItemOption) *domain.Item {
	now := time.Now().UTC().Truncate(time.Second)
	item := &domain.Item{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		Tag:           fmt.Sprintf("TI-%04d", testTagCounter.Add(1)),
		Type:          itemType,
		BudgetedHours: 10,
		Milestones:    map[string]float64{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// SpoolSchedule returns the stock six-milestone pipe spool default.
func SpoolSchedule() domain.Schedule {
	return domain.Schedule{
		ItemType: "spool",
		Milestones: []domain.Milestone{
			{Name: "Receive", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryReceive},
			{Name: "Erect", Weight: 40, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
			{Name: "Connect", Weight: 40, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
			{Name: "Punch", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryPunch},
			{Name: "Test", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryTest},
			{Name: "Restore", Weight: 5, Kind: domain.KindDiscrete, Category: domain.CategoryRestore},
		},
	}
}

// WeldSchedule returns a field weld default with no receive milestone.
func WeldSchedule() domain.Schedule {
	return domain.Schedule{
		ItemType: "weld",
		Milestones: []domain.Milestone{
			{Name: "Fit Up", Weight: 30, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
			{Name: "Weld Out", Weight: 60, Kind: domain.KindDiscrete, Category: domain.CategoryInstall},
			{Name: "Test", Weight: 10, Kind: domain.KindDiscrete, Category: domain.CategoryTest},
		},
	}
}

// ThreadedSchedule returns a threaded-pipe default with a graded run
// milestone.
func ThreadedSchedule() domain.Schedule {
	return domain.Schedule{
		ItemType: "threaded",
		Milestones: []domain.Milestone{
			{Name: "Run Pipe", Weight: 70, Kind: domain.KindPartial, Category: domain.CategoryInstall},
			{Name: "Punch", Weight: 10, Kind: domain.KindDiscrete, Category: domain.CategoryPunch},
			{Name: "Test", Weight: 20, Kind: domain.KindDiscrete, Category: domain.CategoryTest},
		},
	}
}

// NewTestEvent builds a milestone event for the given item.
func NewTestEvent(itemID, milestone string, prev, next float64, at time.Time) *domain.MilestoneEvent {
	return &domain.MilestoneEvent{
		ID:         uuid.New().String(),
		ItemID:     itemID,
		Milestone:  milestone,
		PrevValue:  prev,
		NewValue:   next,
		Actor:      "tester",
		RecordedAt: at,
	}
}
