package importer

import (
	"fmt"
	"strings"

	"github.com/mhollis/spooltally/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found. Milestone names are not
// checked here; they are resolved against the item's schedule at apply time.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.ProjectID == "" {
		errs = append(errs, fmt.Errorf("project_id is required"))
	}
	if len(schema.Items) == 0 {
		errs = append(errs, fmt.Errorf("items must not be empty"))
	}

	tags := make(map[string]bool)
	errs = append(errs, validateItems(schema.Items, tags)...)
	errs = append(errs, validateProgress(schema.Progress, tags)...)

	return errs
}

func validateItems(items []ItemImport, tags map[string]bool) []error {
	var errs []error

	for i, it := range items {
		prefix := fmt.Sprintf("items[%d]", i)

		if it.Tag == "" {
			errs = append(errs, fmt.Errorf("%s.tag is required", prefix))
		} else {
			tag := strings.ToUpper(it.Tag)
			if tags[tag] {
				errs = append(errs, fmt.Errorf("%s.tag: duplicate tag %q", prefix, tag))
			} else {
				tags[tag] = true
			}
		}

		if it.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", prefix))
		} else if !domain.ValidItemTypes[it.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, it.Type))
		}

		if it.BudgetedHours <= 0 {
			errs = append(errs, fmt.Errorf("%s.budgeted_hours must be positive", prefix))
		}
	}

	return errs
}

func validateProgress(entries []ProgressImport, tags map[string]bool) []error {
	var errs []error

	for i, p := range entries {
		prefix := fmt.Sprintf("progress[%d]", i)

		if p.Tag == "" {
			errs = append(errs, fmt.Errorf("%s.tag is required", prefix))
		} else if !tags[strings.ToUpper(p.Tag)] {
			errs = append(errs, fmt.Errorf("%s.tag: tag %q not found in items", prefix, strings.ToUpper(p.Tag)))
		}

		if p.Milestone == "" {
			errs = append(errs, fmt.Errorf("%s.milestone is required", prefix))
		}
		if p.Value == "" {
			errs = append(errs, fmt.Errorf("%s.value is required", prefix))
		}
	}

	return errs
}
