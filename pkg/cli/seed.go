package cli

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/cli/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const defaultAdminPassword = "admin123"

// seedOptions controls what seedData writes
type seedOptions struct {
	AdminEmail    string
	AdminPassword string `masq:"secret"`
	AdminName     string
	SampleClients bool
}

func (o *seedOptions) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "admin-email",
			Usage:       "Email of the initial admin user",
			Category:    "Seed",
			Value:       "admin@kyclytics.com",
			Sources:     cli.EnvVars("KYCLYTICS_ADMIN_EMAIL"),
			Destination: &o.AdminEmail,
		},
		&cli.StringFlag{
			Name:        "admin-password",
			Usage:       "Password of the initial admin user",
			Category:    "Seed",
			Value:       defaultAdminPassword,
			Sources:     cli.EnvVars("KYCLYTICS_ADMIN_PASSWORD"),
			Destination: &o.AdminPassword,
		},
		&cli.StringFlag{
			Name:        "admin-name",
			Usage:       "Display name of the initial admin user",
			Category:    "Seed",
			Value:       "Admin User",
			Sources:     cli.EnvVars("KYCLYTICS_ADMIN_NAME"),
			Destination: &o.AdminName,
		},
		&cli.BoolFlag{
			Name:        "sample-clients",
			Usage:       "Insert sample clients when the client list is empty",
			Category:    "Seed",
			Sources:     cli.EnvVars("KYCLYTICS_SAMPLE_CLIENTS"),
			Destination: &o.SampleClients,
		},
	}
}

var sampleClients = []model.ClientInput{
	{
		FirstName:  "Alice",
		LastName:   "Thompson",
		DOB:        "1985-04-12",
		Address:    "123 Maple Ave, London",
		Country:    "United Kingdom",
		PostalCode: "SW1A 1AA",
		Job:        "Software Engineer",
		Industry:   "Technology",
	},
	{
		FirstName:  "Boris",
		LastName:   "Ivanov",
		DOB:        "1978-11-23",
		Address:    "456 High St, Moscow",
		Country:    "Russia",
		PostalCode: "101000",
		Job:        "CEO",
		Industry:   "Oil & Gas",
		PEP:        true,
	},
	{
		FirstName:  "Carmen",
		LastName:   "Delgado",
		DOB:        "1990-07-02",
		Address:    "78 Calle Mayor, Madrid",
		Country:    "Spain",
		PostalCode: "28013",
		Job:        "Dealer",
		Industry:   "Gambling",
	},
}

// seedResult reports what seedData changed
type seedResult struct {
	AdminCreated   bool
	ConfigCreated  bool
	ClientsCreated int
}

// seedData is idempotent. Existing users, config and clients are left alone.
func seedData(ctx context.Context, repo interfaces.Repository, uc *usecase.UseCases, opts seedOptions) (*seedResult, error) {
	logger := logging.From(ctx)
	var result seedResult

	if opts.AdminPassword == defaultAdminPassword {
		logger.Warn("Seeding admin user with the default password, change it before exposing the service")
	}
	_, created, err := uc.User.EnsureUser(ctx, usecase.UserInput{
		Email:    opts.AdminEmail,
		Password: opts.AdminPassword,
		Name:     opts.AdminName,
		Role:     types.RoleAdmin,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to seed admin user")
	}
	result.AdminCreated = created

	_, err = repo.RiskConfig().Get(ctx)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		if _, err := uc.RiskConfig.Reset(ctx); err != nil {
			return nil, goerr.Wrap(err, "failed to seed risk config")
		}
		result.ConfigCreated = true
	case err != nil:
		return nil, goerr.Wrap(err, "failed to check risk config")
	}

	if opts.SampleClients {
		existing, err := uc.Client.ListClients(ctx, usecase.ClientQuery{})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list clients")
		}
		if len(existing) == 0 {
			for _, in := range sampleClients {
				if _, err := uc.Client.CreateClient(ctx, in); err != nil {
					return nil, goerr.Wrap(err, "failed to seed sample client", goerr.V("last_name", in.LastName))
				}
				result.ClientsCreated++
			}
		}
	}

	logger.Info("Seed completed",
		"admin_email", opts.AdminEmail,
		"admin_created", result.AdminCreated,
		"config_created", result.ConfigCreated,
		"clients_created", result.ClientsCreated,
	)
	return &result, nil
}

func cmdSeed() *cli.Command {
	var repoCfg config.Repository
	var riskFile config.RiskFile
	var opts seedOptions

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, riskFile.Flags()...)
	flags = append(flags, opts.flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Create the admin user and the initial risk config, optionally with sample clients",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			bootstrap, err := riskFile.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load risk config")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()
			if repoCfg.Backend() == "memory" {
				logging.Default().Warn("Seeding the in-memory repository has no lasting effect, use serve --seed instead")
			}

			uc := usecase.New(repo, usecase.WithRiskConfig(bootstrap))
			_, err = seedData(ctx, repo, uc, opts)
			return err
		},
	}
}
