package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for a takeoff import: the
// line items of one project, optionally with already-earned milestone
// values carried over from a legacy tracking sheet.
type ImportSchema struct {
	ProjectID string           `json:"project_id"`
	Items     []ItemImport     `json:"items"`
	Progress  []ProgressImport `json:"progress,omitempty"`
}

// ItemImport defines one line item in the import file.
type ItemImport struct {
	Tag           string  `json:"tag"`
	Type          string  `json:"type"`
	Desc          string  `json:"desc,omitempty"`
	BudgetedHours float64 `json:"budgeted_hours"`
	Area          *string `json:"area,omitempty"`
	System        *string `json:"system,omitempty"`
	TestPackage   *string `json:"test_package,omitempty"`
	Drawing       *string `json:"drawing,omitempty"`
	Welder        *string `json:"welder,omitempty"`
}

// ProgressImport carries one pre-existing milestone value for an item
// defined earlier in the same file.
type ProgressImport struct {
	Tag       string `json:"tag"`
	Milestone string `json:"milestone"`
	Value     string `json:"value"`
	Note      string `json:"note,omitempty"`
}

// LoadImportSchema reads and parses a takeoff import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
