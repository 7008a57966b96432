package aplsync

import (
	"fmt"
)

// ValidateRecordCount is the pre-diff hard gate. A parse below the configured
// minimum fails the job before the catalog is touched; this is the primary
// defense against truncated downloads or a silently broken parser soft-
// deleting most of a jurisdiction's catalog.
func ValidateRecordCount(parsed int, minExpected int) error {
	if minExpected <= 0 {
		return nil
	}
	if parsed < minExpected {
		return fmt.Errorf("%w: parsed %d, minimum %d", ErrBelowMinimumRecords, parsed, minExpected)
	}
	return nil
}

// ValidateChangeRate is the post-diff advisory check. The diff is already
// applied when it runs, so a breach surfaces as an operator warning on the
// job instead of a rollback.
func ValidateChangeRate(added, updated, removed int, existingCount int64, maxRate float64) string {
	if maxRate <= 0 || existingCount == 0 {
		return ""
	}

	changed := added + updated + removed
	rate := float64(changed) / float64(existingCount)
	if rate <= maxRate {
		return ""
	}

	return fmt.Sprintf("change rate %.2f exceeds configured maximum %.2f (%d of %d records changed)",
		rate, maxRate, changed, existingCount)
}
