package importer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/spooltally/internal/domain"
)

// PendingProgress is one normalization-pending milestone value bound to a
// converted item. The raw value is kept as supplied; the applying service
// normalizes it against the milestone's kind once the schedule is known.
type PendingProgress struct {
	ItemID    string
	Tag       string
	Milestone string
	RawValue  string
	Note      string
}

// Batch is the converted form of an ImportSchema, ready for persistence.
type Batch struct {
	ProjectID string
	Items     []*domain.Item
	Progress  []PendingProgress
}

// Convert transforms a validated ImportSchema into domain objects.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) *Batch {
	now := time.Now().UTC()

	idByTag := make(map[string]string, len(schema.Items))

	items := make([]*domain.Item, 0, len(schema.Items))
	for _, it := range schema.Items {
		tag := strings.ToUpper(it.Tag)
		id := uuid.New().String()
		idByTag[tag] = id

		items = append(items, &domain.Item{
			ID:            id,
			ProjectID:     schema.ProjectID,
			Tag:           tag,
			Type:          it.Type,
			Desc:          it.Desc,
			BudgetedHours: it.BudgetedHours,
			Milestones:    make(map[string]float64),
			AreaID:        it.Area,
			SystemID:      it.System,
			TestPackageID: it.TestPackage,
			DrawingID:     it.Drawing,
			WelderID:      it.Welder,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	progress := make([]PendingProgress, 0, len(schema.Progress))
	for _, p := range schema.Progress {
		tag := strings.ToUpper(p.Tag)
		progress = append(progress, PendingProgress{
			ItemID:    idByTag[tag],
			Tag:       tag,
			Milestone: p.Milestone,
			RawValue:  p.Value,
			Note:      p.Note,
		})
	}

	return &Batch{
		ProjectID: schema.ProjectID,
		Items:     items,
		Progress:  progress,
	}
}
