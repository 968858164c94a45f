package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
)

type weightsJSON struct {
	PEP              int `json:"pep"`
	HighRiskCountry  int `json:"highRiskCountry"`
	HighRiskIndustry int `json:"highRiskIndustry"`
	CashIntensiveJob int `json:"cashIntensiveJob"`
}

type thresholdsJSON struct {
	Medium int `json:"medium"`
	High   int `json:"high"`
}

type riskConfigResponse struct {
	Weights            weightsJSON            `json:"weights"`
	Thresholds         thresholdsJSON         `json:"thresholds"`
	ReviewMonths       map[types.RiskBand]int `json:"reviewMonths"`
	HighRiskCountries  []string               `json:"highRiskCountries"`
	HighRiskIndustries []string               `json:"highRiskIndustries"`
	CashIntensiveJobs  []string               `json:"cashIntensiveJobs"`
	UpdatedAt          *time.Time             `json:"updatedAt,omitempty"`
}

// riskConfigPatchRequest is a partial update. Absent members are left as they are;
// weights, thresholds and reviewMonths replace the whole sub-object.
type riskConfigPatchRequest struct {
	Weights            *weightsJSON           `json:"weights"`
	Thresholds         *thresholdsJSON        `json:"thresholds"`
	ReviewMonths       map[types.RiskBand]int `json:"reviewMonths"`
	HighRiskCountries  *[]string              `json:"highRiskCountries"`
	HighRiskIndustries *[]string              `json:"highRiskIndustries"`
	CashIntensiveJobs  *[]string              `json:"cashIntensiveJobs"`
}

type listEntryRequest struct {
	Value string `json:"value"`
}

type previewRequest struct {
	PEP      bool   `json:"pep"`
	Country  string `json:"country"`
	Industry string `json:"industry"`
	Job      string `json:"job"`
}

type assessmentResponse struct {
	Score            int            `json:"score"`
	Band             types.RiskBand `json:"band"`
	Factors          []string       `json:"factors"`
	NextReviewMonths int            `json:"nextReviewMonths"`
}

func toRiskConfigResponse(cfg *config.RiskConfig) riskConfigResponse {
	months := make(map[types.RiskBand]int, 3)
	for _, band := range types.AllRiskBands() {
		months[band] = cfg.ReviewMonths.For(band)
	}

	resp := riskConfigResponse{
		Weights: weightsJSON{
			PEP:              cfg.Weights.PEP,
			HighRiskCountry:  cfg.Weights.HighRiskCountry,
			HighRiskIndustry: cfg.Weights.HighRiskIndustry,
			CashIntensiveJob: cfg.Weights.CashIntensiveJob,
		},
		Thresholds:         thresholdsJSON{Medium: cfg.Thresholds.Medium, High: cfg.Thresholds.High},
		ReviewMonths:       months,
		HighRiskCountries:  nonNil(cfg.HighRiskCountries),
		HighRiskIndustries: nonNil(cfg.HighRiskIndustries),
		CashIntensiveJobs:  nonNil(cfg.CashIntensiveJobs),
	}
	if !cfg.UpdatedAt.IsZero() {
		resp.UpdatedAt = &cfg.UpdatedAt
	}
	return resp
}

func (req *riskConfigPatchRequest) toPatch() (*config.RiskConfigPatch, error) {
	patch := &config.RiskConfigPatch{
		HighRiskCountries:  req.HighRiskCountries,
		HighRiskIndustries: req.HighRiskIndustries,
		CashIntensiveJobs:  req.CashIntensiveJobs,
	}
	if req.Weights != nil {
		patch.Weights = &config.Weights{
			PEP:              req.Weights.PEP,
			HighRiskCountry:  req.Weights.HighRiskCountry,
			HighRiskIndustry: req.Weights.HighRiskIndustry,
			CashIntensiveJob: req.Weights.CashIntensiveJob,
		}
	}
	if req.Thresholds != nil {
		patch.Thresholds = &config.Thresholds{Medium: req.Thresholds.Medium, High: req.Thresholds.High}
	}
	if req.ReviewMonths != nil {
		patch.ReviewMonths = make(config.ReviewMonths, len(req.ReviewMonths))
		for band, months := range req.ReviewMonths {
			patch.ReviewMonths[band] = months
		}
	}
	if patch.IsEmpty() {
		return nil, goerr.Wrap(errBadRequest, "risk config patch is empty")
	}
	return patch, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) getRiskConfigHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.uc.RiskConfig.Get(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toRiskConfigResponse(cfg))
}

func (s *Server) updateRiskConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req riskConfigPatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		handleError(w, r, err)
		return
	}

	cfg, err := s.uc.RiskConfig.Update(r.Context(), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toRiskConfigResponse(cfg))
}

func (s *Server) resetRiskConfigHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.uc.RiskConfig.Reset(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toRiskConfigResponse(cfg))
}

func (s *Server) previewRiskHandler(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	assessment, err := s.uc.RiskConfig.Preview(r.Context(), model.ClientProfile{
		PEP:      req.PEP,
		Country:  req.Country,
		Industry: req.Industry,
		Job:      req.Job,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, assessmentResponse{
		Score:            assessment.Score,
		Band:             assessment.Band,
		Factors:          nonNil(assessment.Factors),
		NextReviewMonths: assessment.NextReviewMonths,
	})
}

type listMutation func(ctx context.Context, value string) (*config.RiskConfig, error)

type riskConfigList struct {
	path   string
	add    listMutation
	remove listMutation
}

// riskConfigLists binds the editable lists to their URL segments
func riskConfigLists(uc *usecase.RiskConfigUseCase) []riskConfigList {
	return []riskConfigList{
		{"countries", uc.AddHighRiskCountry, uc.RemoveHighRiskCountry},
		{"industries", uc.AddHighRiskIndustry, uc.RemoveHighRiskIndustry},
		{"jobs", uc.AddCashIntensiveJob, uc.RemoveCashIntensiveJob},
	}
}

func (s *Server) addListEntryHandler(add listMutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listEntryRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		cfg, err := add(r.Context(), req.Value)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toRiskConfigResponse(cfg))
	}
}

func (s *Server) removeListEntryHandler(remove listMutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// chi matches on RawPath when it is set, leaving the value escaped
		value := chi.URLParam(r, "value")
		if r.URL.RawPath != "" {
			unescaped, err := url.PathUnescape(value)
			if err != nil {
				handleError(w, r, goerr.Wrap(errBadRequest, "invalid list value", goerr.V("value", value)))
				return
			}
			value = unescaped
		}

		cfg, err := remove(r.Context(), value)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toRiskConfigResponse(cfg))
	}
}
