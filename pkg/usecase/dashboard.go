package usecase

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/risk"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// DashboardStats summarises the client portfolio. DueSoon includes overdue clients.
type DashboardStats struct {
	TotalClients int
	ByBand       map[types.RiskBand]int
	DueSoon      int
	Overdue      int
}

type DashboardUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewDashboardUseCase(repo interfaces.Repository, now func() time.Time) *DashboardUseCase {
	return &DashboardUseCase{
		repo: repo,
		now:  now,
	}
}

func (uc *DashboardUseCase) Stats(ctx context.Context) (*DashboardStats, error) {
	clients, err := uc.repo.Client().List(ctx, model.ClientFilter{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list clients for dashboard")
	}

	stats := &DashboardStats{
		TotalClients: len(clients),
		ByBand:       make(map[types.RiskBand]int, 3),
	}
	for _, band := range types.AllRiskBands() {
		stats.ByBand[band] = 0
	}

	now := uc.now()
	for _, c := range clients {
		stats.ByBand[c.Band]++
		switch risk.DeriveStatus(c.NextReview, now) {
		case types.ReviewStatusOverdue:
			stats.Overdue++
			stats.DueSoon++
		case types.ReviewStatusDueSoon:
			stats.DueSoon++
		}
	}
	return stats, nil
}

// PriorityReviews returns clients whose review is due soon or overdue, most
// urgent first. A limit <= 0 returns all of them.
func (uc *DashboardUseCase) PriorityReviews(ctx context.Context, limit int) ([]*model.Client, error) {
	clients, err := uc.repo.Client().List(ctx, model.ClientFilter{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list clients for dashboard")
	}

	now := uc.now()
	clients = slices.DeleteFunc(clients, func(c *model.Client) bool {
		return !risk.DeriveStatus(c.NextReview, now).NeedsAttention()
	})
	sortByNextReview(clients)

	if limit > 0 && len(clients) > limit {
		clients = clients[:limit]
	}
	return clients, nil
}

func sortByNextReview(clients []*model.Client) {
	slices.SortStableFunc(clients, func(a, b *model.Client) int {
		return cmp.Or(
			a.NextReview.Compare(b.NextReview),
			cmp.Compare(a.ID, b.ID),
		)
	})
}
