package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for API authentication
type Auth struct {
	jwtSecret   string
	tokenTTL    time.Duration
	noAuth      bool
	noAuthEmail string
	noAuthName  string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HMAC secret used to sign API tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("KYCLYTICS_JWT_SECRET"),
			Destination: &x.jwtSecret,
		},
		&cli.DurationFlag{
			Name:        "token-ttl",
			Usage:       "Lifetime of issued API tokens",
			Category:    "Authentication",
			Value:       usecase.DefaultTokenTTL,
			Sources:     cli.EnvVars("KYCLYTICS_TOKEN_TTL"),
			Destination: &x.tokenTTL,
		},
		&cli.BoolFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and act as a fixed admin user (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("KYCLYTICS_NO_AUTH"),
			Destination: &x.noAuth,
		},
		&cli.StringFlag{
			Name:        "no-auth-email",
			Usage:       "Email of the user assumed in no-auth mode",
			Category:    "Authentication",
			Value:       "dev@kyclytics.local",
			Sources:     cli.EnvVars("KYCLYTICS_NO_AUTH_EMAIL"),
			Destination: &x.noAuthEmail,
		},
		&cli.StringFlag{
			Name:        "no-auth-name",
			Usage:       "Display name of the user assumed in no-auth mode",
			Category:    "Authentication",
			Value:       "Developer",
			Sources:     cli.EnvVars("KYCLYTICS_NO_AUTH_NAME"),
			Destination: &x.noAuthName,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("jwt-secret.len", len(x.jwtSecret)),
		slog.Duration("token-ttl", x.tokenTTL),
		slog.Bool("no-auth", x.noAuth),
	)
}

// IsNoAuthMode returns true if no-auth mode is enabled
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuth
}

// Configure returns the NoAuthn use case in no-auth mode, otherwise the JWT backed one
func (x *Auth) Configure(repo interfaces.Repository) (usecase.AuthUseCaseInterface, error) {
	if x.noAuth {
		if x.jwtSecret != "" {
			slog.Warn("--no-auth is set, ignoring --jwt-secret")
		}
		return usecase.NewNoAuthnUseCase(x.noAuthEmail, x.noAuthName), nil
	}

	if x.jwtSecret == "" {
		return nil, goerr.Wrap(ErrMissingJWTSecret, "cannot configure authentication")
	}

	authUC, err := usecase.NewAuthUseCase(repo, []byte(x.jwtSecret), usecase.WithTokenTTL(x.tokenTTL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure authentication")
	}
	return authUC, nil
}
