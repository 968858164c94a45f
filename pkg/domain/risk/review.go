package risk

import (
	"time"

	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// DueSoonDays is the width of the DUE_SOON window in calendar days
const DueSoonDays = 30

// DeriveStatus computes the review status of a client whose next review is at
// nextReview, as seen at now. The DUE_SOON window is inclusive at both ends.
func DeriveStatus(nextReview, now time.Time) types.ReviewStatus {
	if now.After(nextReview) {
		return types.ReviewStatusOverdue
	}
	if !nextReview.After(now.AddDate(0, 0, DueSoonDays)) {
		return types.ReviewStatusDueSoon
	}
	return types.ReviewStatusOK
}

// NextReviewDate returns from plus the given number of calendar months.
// Month overflow is normalised, so Jan 31 + 1 month lands in early March.
func NextReviewDate(from time.Time, months int) time.Time {
	return from.AddDate(0, months, 0)
}
