package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mhollis/spooltally/internal/db"
	"github.com/mhollis/spooltally/internal/domain"
	"github.com/mhollis/spooltally/internal/progress"
	"github.com/mhollis/spooltally/internal/repository"
)

type templateService struct {
	schedules repository.ScheduleRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver

	mu    sync.Mutex
	cache map[string]domain.Schedule // "(projectID|-)/itemType" -> resolved
}

func NewTemplateService(schedules repository.ScheduleRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TemplateService {
	return &templateService{
		schedules: schedules,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		cache:     make(map[string]domain.Schedule),
	}
}

func cacheKey(projectID *string, itemType string) string {
	pid := "-"
	if projectID != nil {
		pid = *projectID
	}
	return pid + "/" + strings.ToLower(itemType)
}

func (s *templateService) Resolve(ctx context.Context, projectID *string, itemType string) (domain.Schedule, error) {
	key := cacheKey(projectID, itemType)
	s.mu.Lock()
	if sched, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return sched, nil
	}
	s.mu.Unlock()

	def, err := s.schedules.GetDefault(ctx, itemType)
	if err != nil {
		return domain.Schedule{}, err
	}

	var override *domain.Schedule
	if projectID != nil {
		override, err = s.schedules.GetOverride(ctx, *projectID, itemType)
		if err != nil && !isNotFound(err) {
			return domain.Schedule{}, err
		}
	}

	resolved, err := progress.Resolve(*def, override)
	if err != nil {
		return domain.Schedule{}, err
	}

	s.mu.Lock()
	s.cache[key] = resolved
	s.mu.Unlock()
	return resolved, nil
}

func (s *templateService) ListTypes(ctx context.Context) ([]string, error) {
	return s.schedules.ListDefaultTypes(ctx)
}

func (s *templateService) ListOverrides(ctx context.Context, projectID string) ([]*domain.Schedule, error) {
	return s.schedules.ListOverrides(ctx, projectID)
}

// PutDefault writes an item type's default schedule. Every project
// override of the type is re-resolved against the new default first, so a
// default edit can never leave an existing override resolving to a bad sum.
func (s *templateService) PutDefault(ctx context.Context, sched domain.Schedule) (err error) {
	defer s.observe(ctx, "template-put-default", time.Now().UTC(), map[string]any{"item_type": sched.ItemType}, &err)

	if err = progress.ValidateSchedule(sched); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedules := repository.NewSQLiteScheduleRepo(tx)

		projects, err := txSchedules.ListProjectsWithOverride(ctx, sched.ItemType)
		if err != nil {
			return err
		}
		for _, pid := range projects {
			override, err := txSchedules.GetOverride(ctx, pid, sched.ItemType)
			if err != nil {
				return err
			}
			if _, err := progress.Resolve(sched, override); err != nil {
				return fmt.Errorf("default for %q breaks override of project %s: %w", sched.ItemType, pid, err)
			}
		}
		return txSchedules.PutDefault(ctx, sched)
	})
	if err != nil {
		return err
	}

	s.invalidateType(sched.ItemType)
	return nil
}

// PutOverride writes a project override. The merged result is validated
// before commit: a bad override is rejected here, at write time, never
// discovered during a later calculation.
func (s *templateService) PutOverride(ctx context.Context, sched domain.Schedule) (err error) {
	fields := map[string]any{"item_type": sched.ItemType}
	if sched.ProjectID != nil {
		fields["project"] = *sched.ProjectID
	}
	defer s.observe(ctx, "template-put-override", time.Now().UTC(), fields, &err)

	if sched.ProjectID == nil {
		return fmt.Errorf("override schedule for %q has no project id", sched.ItemType)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedules := repository.NewSQLiteScheduleRepo(tx)

		def, err := txSchedules.GetDefault(ctx, sched.ItemType)
		if err != nil {
			return err
		}
		if _, err := progress.Resolve(*def, &sched); err != nil {
			return err
		}
		return txSchedules.PutOverride(ctx, sched)
	})
	if err != nil {
		return err
	}

	s.invalidateType(sched.ItemType)
	return nil
}

func (s *templateService) DeleteOverride(ctx context.Context, projectID, itemType string) (err error) {
	defer s.observe(ctx, "template-delete-override", time.Now().UTC(),
		map[string]any{"item_type": itemType, "project": projectID}, &err)

	if err = s.schedules.DeleteOverride(ctx, projectID, itemType); err != nil {
		return err
	}
	s.invalidateType(itemType)
	return nil
}

// seedSchedule is the JSON file format for shipped default schedules.
type seedSchedule struct {
	ItemType   string `json:"item_type"`
	Milestones []struct {
		Name     string  `json:"name"`
		Weight   float64 `json:"weight"`
		Kind     string  `json:"kind"`
		Category string  `json:"category"`
	} `json:"milestones"`
}

func (s *templateService) SeedFromDir(ctx context.Context, dir string) (count int, err error) {
	defer s.observe(ctx, "template-seed", time.Now().UTC(), map[string]any{"dir": dir}, &err)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading seed directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return count, fmt.Errorf("reading seed file %s: %w", name, err)
		}
		var seed seedSchedule
		if err := json.Unmarshal(data, &seed); err != nil {
			return count, fmt.Errorf("parsing seed file %s: %w", name, err)
		}

		sched := domain.Schedule{ItemType: seed.ItemType}
		for _, m := range seed.Milestones {
			sched.Milestones = append(sched.Milestones, domain.Milestone{
				Name:     m.Name,
				Weight:   m.Weight,
				Kind:     domain.MilestoneKind(m.Kind),
				Category: domain.Category(m.Category),
			})
		}
		if err := s.PutDefault(ctx, sched); err != nil {
			return count, fmt.Errorf("seeding %s: %w", name, err)
		}
		count++
	}
	return count, nil
}

func (s *templateService) invalidateType(itemType string) {
	suffix := "/" + strings.ToLower(itemType)
	s.mu.Lock()
	for key := range s.cache {
		if strings.HasSuffix(key, suffix) {
			delete(s.cache, key)
		}
	}
	s.mu.Unlock()
}

func (s *templateService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
		StartedAt: startedAt,
	})
}
