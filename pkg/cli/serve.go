package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/cli/config"
	httpctrl "github.com/secmon-lab/kyclytics/pkg/controller/http"
	"github.com/secmon-lab/kyclytics/pkg/service/worker"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var reviewInterval time.Duration
	var seed bool
	var seedOpts seedOptions
	var repoCfg config.Repository
	var storageCfg config.Storage
	var authCfg config.Auth
	var slackCfg config.Slack
	var sentryCfg config.Sentry
	var riskFile config.RiskFile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("KYCLYTICS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "review-interval",
			Usage:       "Interval of the review escalation sweep (0 disables it)",
			Value:       time.Hour,
			Sources:     cli.EnvVars("KYCLYTICS_REVIEW_INTERVAL"),
			Destination: &reviewInterval,
		},
		&cli.BoolFlag{
			Name:        "seed",
			Usage:       "Seed the admin user and risk config at startup",
			Sources:     cli.EnvVars("KYCLYTICS_SEED"),
			Destination: &seed,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, riskFile.Flags()...)
	flags = append(flags, seedOpts.flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Serve configuration",
				"addr", addr,
				"auth", authCfg,
				"slack", slackCfg,
				"sentry", sentryCfg,
			)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

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
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			blobs, closeBlobs, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize document storage")
			}
			defer closeBlobs()

			authUC, err := authCfg.Configure(repo)
			if err != nil {
				return err
			}
			if authCfg.IsNoAuthMode() {
				logger.Warn("Running in no-auth mode (development only)")
			}

			ucOpts := []usecase.Option{
				usecase.WithRiskConfig(bootstrap),
				usecase.WithBlobStorage(blobs),
				usecase.WithAuth(authUC),
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logger.Info("Slack review notifications enabled")
			}

			uc := usecase.New(repo, ucOpts...)

			if seed {
				if _, err := seedData(ctx, repo, uc, seedOpts); err != nil {
					return err
				}
			}

			var reviewWorker *worker.ReviewEscalationWorker
			if reviewInterval > 0 {
				reviewWorker = worker.NewReviewEscalationWorker(uc.Review, reviewInterval)
				if err := reviewWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start review escalation worker")
				}
			}

			httpHandler, err := httpctrl.New(uc)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			var runErr error
			select {
			case runErr = <-errCh:
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down")
			}

			if reviewWorker != nil {
				reviewWorker.Stop()
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown completed")
			return runErr
		},
	}
}
