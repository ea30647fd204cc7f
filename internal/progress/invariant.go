package progress

import (
	"fmt"
	"math"
)

// ReconcileToleranceHours is the permitted absolute gap between the sum of
// per-category earned hours and the overall earned figure.
const ReconcileToleranceHours = 0.01

// CheckReconciliation verifies the calculator's primary correctness
// contract: the category totals and the overall earned total come from
// differently-shaped code paths and must never silently diverge. A failure
// is a data-integrity alert, never auto-corrected.
func CheckReconciliation(b Breakdown) error {
	sum := b.CategorySum()
	if math.Abs(sum-b.Earned) > ReconcileToleranceHours {
		return fmt.Errorf("category sum %.4fh vs earned %.4fh: %w", sum, b.Earned, ErrInvariantViolation)
	}
	return nil
}
