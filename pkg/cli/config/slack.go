package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for review escalation notifications
type Slack struct {
	botToken  string
	channelID string
	baseURL   string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token used to post review reminders",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("KYCLYTICS_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-review-channel",
			Usage:       "Slack channel ID receiving review reminders",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("KYCLYTICS_SLACK_REVIEW_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL of the web UI, used for links in notifications (e.g., https://kyc.example.com)",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("KYCLYTICS_BASE_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channelID),
	)
}

// IsConfigured reports whether review notifications are enabled
func (x *Slack) IsConfigured() bool {
	return x.channelID != ""
}

// Configure returns the review notifier, or nil when no channel is set
func (x *Slack) Configure() (interfaces.ReviewNotifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.botToken == "" {
		return nil, goerr.Wrap(ErrMissingSlackToken, "cannot configure review notifications",
			goerr.V("channel", x.channelID))
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}

	var notifierOpts []slack.NotifierOption
	if x.baseURL != "" {
		notifierOpts = append(notifierOpts, slack.WithBaseURL(x.baseURL))
	}
	return slack.NewReviewNotifier(svc, x.channelID, notifierOpts...), nil
}
