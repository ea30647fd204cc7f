package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CompleteValue is the canonical stored representation of a complete
// milestone. Legacy sources use true/1/x; NormalizeValue folds them all
// into this sentinel once, at the system boundary, so downstream math never
// re-checks legacy spellings.
const CompleteValue = 100.0

const completeEpsilon = 1e-9

// IsComplete reports whether a canonical value represents completion.
func IsComplete(v float64) bool {
	return v >= CompleteValue-completeEpsilon
}

// NormalizeValue converts a raw milestone value, as supplied by import or
// entry tooling, into the canonical 0-100 representation. Accepted forms:
// numeric strings ("45", "87.5"), legacy booleans ("true"/"false",
// "yes"/"no", "x" for a checked box). For discrete milestones the legacy
// unit scale applies too: "1" means complete and "0" means not started. For
// partial milestones "1" is taken literally as 1%.
func NormalizeValue(raw string, kind MilestoneKind) (float64, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return 0, fmt.Errorf("empty milestone value")
	}

	switch s {
	case "true", "yes", "y", "x", "complete", "done":
		return CompleteValue, nil
	case "false", "no", "n":
		return 0, nil
	}
	if kind == KindDiscrete && s == "1" {
		return CompleteValue, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized milestone value %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("milestone value %q is negative", raw)
	}
	if v > 100 {
		return 0, fmt.Errorf("milestone value %q exceeds 100", raw)
	}
	return v, nil
}
