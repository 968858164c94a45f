package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
)

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	authUC      AuthUseCase
	maxBodySize int64
}

type Options func(*Server)

// WithAuth overrides the authentication use case of uc
func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithMaxBodySize limits JSON request bodies. Uploads are limited by usecase.MaxDocumentSize.
func WithMaxBodySize(n int64) Options {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		authUC:      uc.Auth,
		maxBodySize: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.authLoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(s.authUC))

			r.Get("/auth/me", s.authMeHandler)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", s.listClientsHandler)
				r.Post("/", s.createClientHandler)

				r.Route("/{clientID}", func(r chi.Router) {
					r.Get("/", s.getClientHandler)
					r.Put("/", s.updateClientHandler)
					r.Delete("/", s.deleteClientHandler)
					r.Post("/rescore", s.rescoreClientHandler)
					r.Get("/report", s.clientReportHandler)

					r.Get("/documents", s.listDocumentsHandler)
					r.Post("/documents", s.uploadDocumentHandler)
					r.Get("/documents/{documentID}/download", s.downloadDocumentHandler)
					r.Delete("/documents/{documentID}", s.deleteDocumentHandler)
				})
			})

			r.Route("/risk-config", func(r chi.Router) {
				r.Get("/", s.getRiskConfigHandler)
				r.Put("/", s.updateRiskConfigHandler)
				r.Post("/reset", s.resetRiskConfigHandler)
				r.Post("/preview", s.previewRiskHandler)

				for _, l := range riskConfigLists(s.uc.RiskConfig) {
					r.Post("/"+l.path, s.addListEntryHandler(l.add))
					r.Delete("/"+l.path+"/{value}", s.removeListEntryHandler(l.remove))
				}
			})

			r.Get("/dashboard", s.dashboardHandler)

			r.Get("/reviews", s.reviewsHandler)
			r.Post("/reviews/sweep", s.reviewSweepHandler)
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.With(r.Context(), logger))

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
