package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
	"github.com/secmon-lab/kyclytics/pkg/utils/errutil"
)

// errBadRequest marks malformed requests: unparsable bodies, bad query values and the like
var errBadRequest = errors.New("bad request")

// statusOf maps use case and validation errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrClientNotFound),
		errors.Is(err, usecase.ErrDocumentNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, usecase.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, usecase.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType

	case errors.Is(err, usecase.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrMissingRequired),
		errors.Is(err, model.ErrInvalidDate),
		errors.Is(err, config.ErrInvalidRiskConfig),
		errors.Is(err, config.ErrEmptyListValue):
		return http.StatusBadRequest

	case errors.Is(err, usecase.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

// decodeJSON reads a JSON body of at most maxBodySize bytes. Unknown fields are rejected.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid JSON body", goerr.V("reason", err.Error()))
	}
	return nil
}
