package slack

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/slack-go/slack"
)

const (
	// maxSectionBytes is Slack's limit on the text of a section block
	maxSectionBytes = 3000

	// DefaultMaxListed caps the number of clients listed per group
	DefaultMaxListed = 20
)

// ReviewNotifier posts review sweep summaries to a Slack channel
type ReviewNotifier struct {
	svc       Service
	channelID string
	baseURL   string
	maxListed int
}

var _ interfaces.ReviewNotifier = &ReviewNotifier{}

// NotifierOption configures ReviewNotifier
type NotifierOption func(*ReviewNotifier)

// WithBaseURL makes client names link to the web UI
func WithBaseURL(baseURL string) NotifierOption {
	return func(n *ReviewNotifier) {
		n.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithMaxListed caps the clients listed per group; the rest are summarised as a count
func WithMaxListed(n int) NotifierOption {
	return func(r *ReviewNotifier) {
		if n > 0 {
			r.maxListed = n
		}
	}
}

func NewReviewNotifier(svc Service, channelID string, opts ...NotifierOption) *ReviewNotifier {
	n := &ReviewNotifier{
		svc:       svc,
		channelID: channelID,
		maxListed: DefaultMaxListed,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyReviews posts the summary. An empty summary posts nothing.
func (n *ReviewNotifier) NotifyReviews(ctx context.Context, summary *model.ReviewSummary) error {
	if summary == nil || summary.IsEmpty() {
		return nil
	}

	blocks := n.buildBlocks(summary)
	text := fmt.Sprintf("Client reviews: %d overdue, %d due soon", len(summary.Overdue), len(summary.DueSoon))

	if _, err := n.svc.PostMessage(ctx, n.channelID, blocks, text); err != nil {
		return goerr.Wrap(err, "failed to post review summary",
			goerr.V("overdue", len(summary.Overdue)), goerr.V("due_soon", len(summary.DueSoon)))
	}
	return nil
}

func (n *ReviewNotifier) buildBlocks(summary *model.ReviewSummary) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "Client review schedule", true, false),
		),
	}

	if len(summary.Overdue) > 0 {
		blocks = append(blocks, n.groupSection(":rotating_light: *Overdue*", summary.Overdue))
	}
	if len(summary.DueSoon) > 0 {
		if len(summary.Overdue) > 0 {
			blocks = append(blocks, slack.NewDividerBlock())
		}
		blocks = append(blocks, n.groupSection(":hourglass_flowing_sand: *Due within 30 days*", summary.DueSoon))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType,
			"Generated at "+summary.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), false, false),
	))

	return blocks
}

func (n *ReviewNotifier) groupSection(title string, clients []*model.Client) slack.Block {
	lines := []string{fmt.Sprintf("%s (%d)", title, len(clients))}
	for i, c := range clients {
		if i >= n.maxListed {
			lines = append(lines, fmt.Sprintf("…and %d more", len(clients)-n.maxListed))
			break
		}
		lines = append(lines, fmt.Sprintf("• %s  `%s`  review %s",
			n.clientLabel(c), c.Band, c.NextReview.Format("2006-01-02")))
	}

	text := truncateToMaxBytes(strings.Join(lines, "\n"), maxSectionBytes)
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
		nil, nil,
	)
}

func (n *ReviewNotifier) clientLabel(c *model.Client) string {
	name := c.FullName()
	if n.baseURL == "" {
		return name
	}
	return fmt.Sprintf("<%s/clients/%s|%s>", n.baseURL, c.ID, name)
}

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
