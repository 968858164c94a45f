package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/risk"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
)

type ReviewUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.ReviewNotifier
	now      func() time.Time
}

func NewReviewUseCase(repo interfaces.Repository, notifier interfaces.ReviewNotifier, now func() time.Time) *ReviewUseCase {
	return &ReviewUseCase{
		repo:     repo,
		notifier: notifier,
		now:      now,
	}
}

// Sweep groups clients by review status at the current time. Both groups are
// ordered by next review date, earliest first.
func (uc *ReviewUseCase) Sweep(ctx context.Context) (*model.ReviewSummary, error) {
	clients, err := uc.repo.Client().List(ctx, model.ClientFilter{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list clients for review sweep")
	}

	now := uc.now()
	summary := &model.ReviewSummary{GeneratedAt: now.UTC()}
	for _, c := range clients {
		switch risk.DeriveStatus(c.NextReview, now) {
		case types.ReviewStatusOverdue:
			summary.Overdue = append(summary.Overdue, c)
		case types.ReviewStatusDueSoon:
			summary.DueSoon = append(summary.DueSoon, c)
		}
	}
	sortByNextReview(summary.Overdue)
	sortByNextReview(summary.DueSoon)

	return summary, nil
}

// SweepAndNotify runs Sweep and hands a non-empty result to the notifier, if one is configured
func (uc *ReviewUseCase) SweepAndNotify(ctx context.Context) (*model.ReviewSummary, error) {
	summary, err := uc.Sweep(ctx)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("review sweep completed",
		"overdue", len(summary.Overdue),
		"due_soon", len(summary.DueSoon),
	)

	if uc.notifier == nil || summary.IsEmpty() {
		return summary, nil
	}
	if err := uc.notifier.NotifyReviews(ctx, summary); err != nil {
		return summary, goerr.Wrap(err, "failed to notify review sweep")
	}
	return summary, nil
}
