package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/cli/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var riskFile config.RiskFile
	var printConfig bool

	flags := riskFile.Flags()
	flags = append(flags, &cli.BoolFlag{
		Name:        "print",
		Usage:       "Print the effective config, defaults included, as TOML",
		Destination: &printConfig,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a risk config TOML file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if riskFile.Path() == "" {
				return goerr.Wrap(config.ErrInvalidConfig, "--risk-config is required")
			}

			cfg, err := config.LoadRiskConfig(riskFile.Path())
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logging.Default().Info("Risk config validation passed",
				"path", riskFile.Path(),
				"high_risk_countries", len(cfg.HighRiskCountries),
				"high_risk_industries", len(cfg.HighRiskIndustries),
				"cash_intensive_jobs", len(cfg.CashIntensiveJobs),
			)

			w := c.Root().Writer
			if printConfig {
				data, err := config.EncodeRiskConfig(cfg)
				if err != nil {
					return err
				}
				_, _ = w.Write(data)
				return nil
			}

			color.New(color.FgGreen).Fprintf(w, "%s is valid\n", riskFile.Path())
			fmt.Fprintf(w, "  thresholds: medium=%d high=%d\n", cfg.Thresholds.Medium, cfg.Thresholds.High)
			for _, band := range types.AllRiskBands() {
				fmt.Fprintf(w, "  review %-6s every %d months\n", band, cfg.ReviewMonths.For(band))
			}
			return nil
		},
	}
}
