package interfaces

import (
	"context"

	"github.com/secmon-lab/kyclytics/pkg/domain/model"
)

// ReviewNotifier delivers the result of a review sweep to operators
type ReviewNotifier interface {
	NotifyReviews(ctx context.Context, summary *model.ReviewSummary) error
}
