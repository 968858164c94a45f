package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/auth"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
)

// authMiddleware validates the bearer token of protected requests
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				handleError(w, r, goerr.Wrap(usecase.ErrInvalidToken, "authentication is not configured"))
				return
			}

			// NoAuthn mode validates any token, including none
			var token string
			if !authUC.IsNoAuthn() {
				var ok bool
				if token, ok = bearerToken(r); !ok {
					handleError(w, r, goerr.Wrap(usecase.ErrInvalidToken, "authentication required"))
					return
				}
			}

			claims, err := authUC.ValidateToken(r.Context(), token)
			if err != nil {
				handleError(w, r, err)
				return
			}

			ctx := auth.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
