package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
)

type clientRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DOB        string `json:"dob"`
	Address    string `json:"address"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Job        string `json:"job"`
	Industry   string `json:"industry"`
	PEP        bool   `json:"pep"`
}

func (req *clientRequest) toInput() model.ClientInput {
	return model.ClientInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		DOB:        req.DOB,
		Address:    req.Address,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Job:        req.Job,
		Industry:   req.Industry,
		PEP:        req.PEP,
	}
}

type clientResponse struct {
	ID          string             `json:"id"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	DOB         string             `json:"dob"`
	Address     string             `json:"address"`
	Country     string             `json:"country"`
	PostalCode  string             `json:"postalCode"`
	Job         string             `json:"job"`
	Industry    string             `json:"industry"`
	PEP         bool               `json:"pep"`
	Score       int                `json:"score"`
	Band        types.RiskBand     `json:"band"`
	Factors     []string           `json:"factors"`
	Status      types.ReviewStatus `json:"status"`
	NextReview  time.Time          `json:"nextReview"`
	LastUpdated time.Time          `json:"lastUpdated"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func (s *Server) toClientResponse(c *model.Client) clientResponse {
	factors := c.Factors
	if factors == nil {
		factors = []string{}
	}
	return clientResponse{
		ID:          c.ID.String(),
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DOB:         c.DOB,
		Address:     c.Address,
		Country:     c.Country,
		PostalCode:  c.PostalCode,
		Job:         c.Job,
		Industry:    c.Industry,
		PEP:         c.PEP,
		Score:       c.Score,
		Band:        c.Band,
		Factors:     factors,
		Status:      s.uc.Client.Status(c),
		NextReview:  c.NextReview,
		LastUpdated: c.LastUpdated,
		CreatedAt:   c.CreatedAt,
	}
}

func (s *Server) toClientResponses(clients []*model.Client) []clientResponse {
	resp := make([]clientResponse, len(clients))
	for i, c := range clients {
		resp[i] = s.toClientResponse(c)
	}
	return resp
}

func clientIDParam(r *http.Request) types.ClientID {
	return types.ClientID(chi.URLParam(r, "clientID"))
}

// parseClientQuery reads the riskBand, search and status query parameters
func parseClientQuery(r *http.Request) (usecase.ClientQuery, error) {
	q := r.URL.Query()
	query := usecase.ClientQuery{
		ClientFilter: model.ClientFilter{Search: q.Get("search")},
	}

	if v := q.Get("riskBand"); v != "" && v != "all" {
		band, err := types.ParseRiskBand(v)
		if err != nil {
			return query, goerr.Wrap(errBadRequest, "invalid riskBand", goerr.V("riskBand", v))
		}
		query.Band = band
	}
	if v := q.Get("status"); v != "" && v != "all" {
		status, err := types.ParseReviewStatus(v)
		if err != nil {
			return query, goerr.Wrap(errBadRequest, "invalid status", goerr.V("status", v))
		}
		query.Status = status
	}
	return query, nil
}

func (s *Server) listClientsHandler(w http.ResponseWriter, r *http.Request) {
	query, err := parseClientQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	clients, err := s.uc.Client.ListClients(r.Context(), query)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, s.toClientResponses(clients))
}

func (s *Server) createClientHandler(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.uc.Client.CreateClient(r.Context(), req.toInput())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, s.toClientResponse(created))
}

func (s *Server) getClientHandler(w http.ResponseWriter, r *http.Request) {
	client, err := s.uc.Client.GetClient(r.Context(), clientIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, s.toClientResponse(client))
}

func (s *Server) updateClientHandler(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.uc.Client.UpdateClient(r.Context(), clientIDParam(r), req.toInput())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, s.toClientResponse(updated))
}

func (s *Server) deleteClientHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Client.DeleteClient(r.Context(), clientIDParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) rescoreClientHandler(w http.ResponseWriter, r *http.Request) {
	client, err := s.uc.Client.Rescore(r.Context(), clientIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, s.toClientResponse(client))
}
