package domain

// MilestoneKind controls how a stored milestone value contributes weight.
type MilestoneKind string

const (
	// KindDiscrete milestones are binary: only the canonical complete
	// value earns the entry's weight.
	KindDiscrete MilestoneKind = "discrete"
	// KindPartial milestones contribute weight proportionally to a
	// 0-100 completion value.
	KindPartial MilestoneKind = "partial"
)

// Category is the reporting bucket a milestone's earned hours roll into.
type Category string

const (
	CategoryReceive Category = "receive"
	CategoryInstall Category = "install"
	CategoryPunch   Category = "punch"
	CategoryTest    Category = "test"
	CategoryRestore Category = "restore"
)

// Categories lists all categories in report order. Every breakdown carries
// all five, including zero-weight ones.
var Categories = []Category{
	CategoryReceive,
	CategoryInstall,
	CategoryPunch,
	CategoryTest,
	CategoryRestore,
}

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[string]bool{
	"receive": true, "install": true, "punch": true,
	"test": true, "restore": true,
}

// Dimension is an organizational grouping axis for reporting.
type Dimension string

const (
	DimensionArea        Dimension = "area"
	DimensionSystem      Dimension = "system"
	DimensionTestPackage Dimension = "test_package"
	DimensionWelder      Dimension = "welder"
)

// ValidDimensions is the canonical set of accepted dimension strings.
var ValidDimensions = map[Dimension]bool{
	"area": true, "system": true, "test_package": true, "welder": true,
}

// ValidItemTypes is the canonical set of accepted item type strings.
var ValidItemTypes = map[string]bool{
	"spool": true, "weld": true, "valve": true,
	"support": true, "instrument": true, "threaded": true,
}
