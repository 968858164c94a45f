package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/utils/async"
)

const defaultPriorityLimit = 5

type dashboardResponse struct {
	TotalClients    int                    `json:"totalClients"`
	ByBand          map[types.RiskBand]int `json:"byBand"`
	DueSoon         int                    `json:"dueSoon"`
	Overdue         int                    `json:"overdue"`
	PriorityReviews []clientResponse       `json:"priorityReviews"`
}

type reviewsResponse struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Overdue     []clientResponse `json:"overdue"`
	DueSoon     []clientResponse `json:"dueSoon"`
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultPriorityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handleError(w, r, goerr.Wrap(errBadRequest, "limit must be a non-negative integer", goerr.V("limit", v)))
			return
		}
		limit = n
	}

	stats, err := s.uc.Dashboard.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	priority, err := s.uc.Dashboard.PriorityReviews(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, dashboardResponse{
		TotalClients:    stats.TotalClients,
		ByBand:          stats.ByBand,
		DueSoon:         stats.DueSoon,
		Overdue:         stats.Overdue,
		PriorityReviews: s.toClientResponses(priority),
	})
}

func (s *Server) reviewsHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Review.Sweep(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, s.toReviewsResponse(summary))
}

// reviewSweepHandler starts a sweep with notification in the background and returns immediately
func (s *Server) reviewSweepHandler(w http.ResponseWriter, r *http.Request) {
	async.Dispatch(r.Context(), func(ctx context.Context) error {
		_, err := s.uc.Review.SweepAndNotify(ctx)
		return err
	})
	writeJSON(r.Context(), w, http.StatusAccepted, successResponse{Success: true})
}

func (s *Server) toReviewsResponse(summary *model.ReviewSummary) reviewsResponse {
	return reviewsResponse{
		GeneratedAt: summary.GeneratedAt,
		Overdue:     s.toClientResponses(summary.Overdue),
		DueSoon:     s.toClientResponses(summary.DueSoon),
	}
}
