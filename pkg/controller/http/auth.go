package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/auth"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
	"github.com/secmon-lab/kyclytics/pkg/utils/errutil"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password" masq:"secret"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	User      userResponse `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role.Normalize().String(),
	}
}

// authLoginHandler exchanges email and password for a bearer token
func (s *Server) authLoginHandler(w http.ResponseWriter, r *http.Request) {
	if s.authUC == nil {
		handleError(w, r, goerr.Wrap(usecase.ErrInvalidCredentials, "authentication is not configured"))
		return
	}

	var req loginRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := loginResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	}
	if !result.ExpiresAt.IsZero() {
		resp.ExpiresAt = &result.ExpiresAt
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

// authMeHandler returns current user information
func (s *Server) authMeHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	user, err := s.authUC.Me(r.Context(), claims)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toUserResponse(user))
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}
