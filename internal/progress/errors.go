package progress

import "errors"

var (
	// ErrSchemaInvalid marks a schedule whose resolved weights do not sum
	// to 100 within tolerance. Rejected at registry-write time.
	ErrSchemaInvalid = errors.New("invalid milestone schedule")

	// ErrInvariantViolation marks a breakdown whose per-category earned
	// hours fail to reconcile with the overall earned total.
	ErrInvariantViolation = errors.New("category earned hours diverge from total")
)
