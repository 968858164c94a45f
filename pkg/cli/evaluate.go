package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/cli/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/risk"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdEvaluate() *cli.Command {
	var riskFile config.RiskFile
	var profile model.ClientProfile

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "pep",
			Usage:       "The client is a politically exposed person",
			Destination: &profile.PEP,
		},
		&cli.StringFlag{
			Name:        "country",
			Usage:       "Country of residence",
			Destination: &profile.Country,
		},
		&cli.StringFlag{
			Name:        "industry",
			Usage:       "Industry the client works in",
			Destination: &profile.Industry,
		},
		&cli.StringFlag{
			Name:        "job",
			Usage:       "Job title",
			Destination: &profile.Job,
		},
	}
	flags = append(flags, riskFile.Flags()...)

	return &cli.Command{
		Name:    "evaluate",
		Aliases: []string{"e"},
		Usage:   "Score a client profile against a risk config",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := riskFile.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load risk config")
			}

			printAssessment(c.Root().Writer, risk.Evaluate(profile, cfg))
			return nil
		},
	}
}

func bandColor(band types.RiskBand) *color.Color {
	switch band {
	case types.RiskBandRed:
		return color.New(color.FgRed, color.Bold)
	case types.RiskBandYellow:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

func printAssessment(w io.Writer, a model.RiskAssessment) {
	label := color.New(color.Faint)

	label.Fprint(w, "Band:         ")
	bandColor(a.Band).Fprintln(w, a.Band.String())
	label.Fprint(w, "Score:        ")
	fmt.Fprintln(w, a.Score)
	label.Fprint(w, "Next review:  ")
	fmt.Fprintf(w, "%d months\n", a.NextReviewMonths)

	label.Fprintln(w, "Factors:")
	if len(a.Factors) == 0 {
		color.New(color.FgGreen).Fprintln(w, "  none")
		return
	}
	for _, f := range a.Factors {
		fmt.Fprintf(w, "  - %s\n", f)
	}
}
