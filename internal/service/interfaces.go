package service

import (
	"context"
	"errors"
	"time"

	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/importer"
	"github.com/mhollis/spooltally/internal/progress"
)

// ErrUntrackedProgress marks an item carrying cached progress with no
// supporting event history. Reported, never silently folded into deltas.
var ErrUntrackedProgress = errors.New("cached progress has no event history")

type TemplateService interface {
	// Resolve merges the type default with the project override (if any)
	// into one validated schedule. Results are cached per (project, type)
	// and invalidated on writes.
	Resolve(ctx context.Context, projectID *string, itemType string) (domain.Schedule, error)
	ListTypes(ctx context.Context) ([]string, error)
	ListOverrides(ctx context.Context, projectID string) ([]*domain.Schedule, error)
	PutDefault(ctx context.Context, sched domain.Schedule) error
	PutOverride(ctx context.Context, sched domain.Schedule) error
	DeleteOverride(ctx context.Context, projectID, itemType string) error
	// SeedFromDir loads default schedules from JSON files in a directory,
	// returning the number of item types written.
	SeedFromDir(ctx context.Context, dir string) (int, error)
}

type ItemService interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	GetByTag(ctx context.Context, projectID, tag string) (*domain.Item, error)
	ListByProject(ctx context.Context, projectID string, includeRetired bool) ([]*domain.Item, error)
	Retire(ctx context.Context, id string) error
	// Progress computes the item's current breakdown from its cached
	// milestone map and verifies the category/total reconciliation.
	Progress(ctx context.Context, id string) (progress.Breakdown, error)
}

// RecordRequest is one milestone value change against one item.
type RecordRequest struct {
	ItemID    string
	Milestone string
	// RawValue is the value as supplied by entry tooling; it is
	// normalized against the milestone's kind before anything else.
	RawValue   string
	Actor      string
	Note       string
	Correction bool
}

type ProgressService interface {
	// Record appends a MilestoneEvent and refreshes the item's cached
	// figures and rollup rows atomically.
	Record(ctx context.Context, req RecordRequest) (*domain.MilestoneEvent, error)
	// RebuildItem replays the item's full event log from empty state and
	// rewrites the cached projection.
	RebuildItem(ctx context.Context, itemID string) (*domain.Item, error)
	// RebuildRollups recomputes every rollup row of a project from items.
	RebuildRollups(ctx context.Context, projectID string) error
}

// ImportResult summarizes one applied takeoff import.
type ImportResult struct {
	ProjectID  string
	ItemCount  int
	EventCount int
}

type ImportService interface {
	// ImportFile loads, validates and applies a takeoff import file. The
	// whole batch lands in one transaction; a single bad row discards all
	// of it. Actor is stamped on every seeded milestone event.
	ImportFile(ctx context.Context, path, actor string) (*ImportResult, error)
	ImportBatch(ctx context.Context, schema *importer.ImportSchema, actor string) (*ImportResult, error)
}

// DeltaRequest asks for earned-hour movement over [Start, End) grouped by
// one dimension.
type DeltaRequest struct {
	ProjectID string
	Dimension domain.Dimension
	Start     time.Time
	End       time.Time
}

// DeltaRow is the movement for one dimension value. BudgetedHours counts
// each contributing item exactly once, never once per category.
type DeltaRow struct {
	DimensionValue string
	BudgetedHours  float64
	DeltaHours     float64
	ByCategory     map[domain.Category]float64
	ItemCount      int
}

// CacheMismatch flags an item whose cached percent disagrees with a full
// replay of its event log: progress was recorded outside the log.
type CacheMismatch struct {
	ItemID          string
	Tag             string
	CachedPercent   float64
	ReplayedPercent float64
}

// UntrackedItem flags cached progress with zero supporting events.
type UntrackedItem struct {
	ItemID        string
	Tag           string
	CachedPercent float64
}

// DeltaReport is a windowed earned-hours report for one dimension.
type DeltaReport struct {
	Rows            []DeltaRow
	TotalBudgeted   float64
	TotalDelta      float64
	TotalByCategory map[domain.Category]float64

	Mismatches []CacheMismatch
	Untracked  []UntrackedItem
	Unknown    []string
}

// IntegrityReport is the result of a project-wide consistency sweep.
type IntegrityReport struct {
	ItemCount           int
	InvariantViolations []string // item tags failing category reconciliation
	Untracked           []UntrackedItem
	Mismatches          []CacheMismatch
	Unknown             map[string][]string // item tag -> unmatched milestone names
}

// Clean reports whether the sweep found nothing to flag.
func (r IntegrityReport) Clean() bool {
	return len(r.InvariantViolations) == 0 && len(r.Untracked) == 0 &&
		len(r.Mismatches) == 0 && len(r.Unknown) == 0
}

type ReportService interface {
	// Snapshot returns the current rollup rows for a dimension.
	Snapshot(ctx context.Context, projectID string, dim domain.Dimension) ([]domain.RollupRow, error)
	// Delta reconstructs a period's earned hours from the event log,
	// independent of cached current state.
	Delta(ctx context.Context, req DeltaRequest) (*DeltaReport, error)
	// Check sweeps a project for invariant violations, untracked
	// progress, and cache/log divergence.
	Check(ctx context.Context, projectID string) (*IntegrityReport, error)
}
