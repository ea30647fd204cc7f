package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/progress"
	"github.com/mhollis/spooltally/internal/repository"
)

// mismatchTolerance is the allowed drift, in percent points, between an
// item's cached percent and the percent replayed from its full event log.
const mismatchTolerance = 0.01

type reportService struct {
	rollups  repository.RollupRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewReportService(rollups repository.RollupRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ReportService {
	return &reportService{
		rollups:  rollups,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) Snapshot(ctx context.Context, projectID string, dim domain.Dimension) ([]domain.RollupRow, error) {
	if !domain.ValidDimensions[dim] {
		return nil, fmt.Errorf("unknown dimension %q", dim)
	}
	return s.rollups.ListByDimension(ctx, projectID, dim)
}

// Delta reconstructs a window's earned-hour movement from the event log,
// grouped by one dimension. The cached item figures only feed the
// cross-check; the movement itself comes entirely from events.
func (s *reportService) Delta(ctx context.Context, req DeltaRequest) (report *DeltaReport, err error) {
	startedAt := time.Now().UTC()
	defer s.observe(ctx, "report-delta", startedAt, map[string]any{
		"project": req.ProjectID, "dimension": string(req.Dimension),
	}, &err)

	if !domain.ValidDimensions[req.Dimension] {
		return nil, fmt.Errorf("unknown dimension %q", req.Dimension)
	}
	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("window start %s is not before end %s", req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))
	}

	report = &DeltaReport{TotalByCategory: zeroCategoryMap()}
	byValue := make(map[string]*DeltaRow)

	// One transaction so every item is read against the same snapshot of
	// the log.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		items, err := txItems.ListByDimension(ctx, req.ProjectID, req.Dimension)
		if err != nil {
			return err
		}

		for _, item := range items {
			sched, err := resolveSchedule(ctx, tx, item.ProjectID, item.Type)
			if err != nil {
				return err
			}

			if err := s.crossCheck(ctx, txEvents, sched, item, report); err != nil {
				return err
			}

			windowEvents, err := txEvents.ListByItemInWindow(ctx, item.ID, req.Start, req.End)
			if err != nil {
				return err
			}
			// An item with no in-window events contributes neither
			// movement nor budget; its denominator belongs to windows
			// where it actually moved.
			if len(windowEvents) == 0 {
				continue
			}

			d, err := progress.ComputeDelta(sched, groupWindowChanges(windowEvents), item.BudgetedHours)
			if err != nil {
				return err
			}
			report.Unknown = mergeUnknown(report.Unknown, d.Unknown)

			dimValue := item.DimensionValue(req.Dimension)
			if dimValue == nil {
				continue
			}
			value := *dimValue
			row, ok := byValue[value]
			if !ok {
				row = &DeltaRow{DimensionValue: value, ByCategory: zeroCategoryMap()}
				byValue[value] = row
			}
			row.BudgetedHours += item.BudgetedHours
			row.DeltaHours += d.Hours
			row.ItemCount++
			for cat, v := range d.ByCategory {
				row.ByCategory[cat] += v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Strings(values)
	for _, v := range values {
		row := byValue[v]
		report.Rows = append(report.Rows, *row)
		report.TotalBudgeted += row.BudgetedHours
		report.TotalDelta += row.DeltaHours
		for cat, h := range row.ByCategory {
			report.TotalByCategory[cat] += h
		}
	}
	return report, nil
}

// Check sweeps every active item of a project for reconciliation failures,
// cached progress with no event history, and cache/log divergence.
func (s *reportService) Check(ctx context.Context, projectID string) (report *IntegrityReport, err error) {
	startedAt := time.Now().UTC()
	defer s.observe(ctx, "report-check", startedAt, map[string]any{"project": projectID}, &err)

	report = &IntegrityReport{Unknown: make(map[string][]string)}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		items, err := txItems.ListByProject(ctx, projectID, false)
		if err != nil {
			return err
		}
		report.ItemCount = len(items)

		for _, item := range items {
			sched, err := resolveSchedule(ctx, tx, item.ProjectID, item.Type)
			if err != nil {
				return err
			}

			b, err := progress.Compute(sched, item.Milestones, item.BudgetedHours)
			if err != nil {
				return err
			}
			if err := progress.CheckReconciliation(b); err != nil {
				report.InvariantViolations = append(report.InvariantViolations, item.Tag)
			}
			if len(b.Unknown) > 0 {
				report.Unknown[item.Tag] = b.Unknown
			}

			deltaReport := &DeltaReport{}
			if err := s.crossCheck(ctx, txEvents, sched, item, deltaReport); err != nil {
				return err
			}
			report.Untracked = append(report.Untracked, deltaReport.Untracked...)
			report.Mismatches = append(report.Mismatches, deltaReport.Mismatches...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// crossCheck compares an item's cached percent against a full replay of
// its event log and records untracked progress or divergence on report.
func (s *reportService) crossCheck(ctx context.Context, events repository.EventRepo, sched domain.Schedule, item *domain.Item, report *DeltaReport) error {
	count, err := events.CountByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if count == 0 {
		if item.PercentComplete > 0 {
			report.Untracked = append(report.Untracked, UntrackedItem{
				ItemID:        item.ID,
				Tag:           item.Tag,
				CachedPercent: item.PercentComplete,
			})
		}
		return nil
	}

	all, err := events.ListByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	replayed, err := progress.Compute(sched, domain.ReplayValues(all), item.BudgetedHours)
	if err != nil {
		return err
	}
	if math.Abs(replayed.Percent-item.PercentComplete) > mismatchTolerance {
		report.Mismatches = append(report.Mismatches, CacheMismatch{
			ItemID:          item.ID,
			Tag:             item.Tag,
			CachedPercent:   item.PercentComplete,
			ReplayedPercent: replayed.Percent,
		})
	}
	return nil
}

func zeroCategoryMap() map[domain.Category]float64 {
	m := make(map[domain.Category]float64, len(domain.Categories))
	for _, cat := range domain.Categories {
		m[cat] = 0
	}
	return m
}

func mergeUnknown(have, more []string) []string {
	if len(more) == 0 {
		return have
	}
	merged := append(have, more...)
	sort.Strings(merged)
	out := merged[:0]
	for i, s := range merged {
		if i == 0 || !strings.EqualFold(s, merged[i-1]) {
			out = append(out, s)
		}
	}
	return out
}

func (s *reportService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
		StartedAt: startedAt,
	})
}
