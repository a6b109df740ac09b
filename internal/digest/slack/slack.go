// Package slack delivers digests to Slack, either through a bot token or
// an incoming webhook.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/Kilerd/todoki/internal/digest"
)

// slackClient abstracts the Slack API methods we use, enabling test
// mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// webhookPoster posts to an incoming webhook URL.
type webhookPoster func(ctx context.Context, url string, msg *slackapi.WebhookMessage) error

// Notifier implements digest.Notifier for Slack.
type Notifier struct {
	client     slackClient
	webhook    webhookPoster
	webhookURL string
	channel    string
}

// Opts holds parameters for creating a Slack Notifier. Either Token plus
// Channel, or WebhookURL.
type Opts struct {
	Token      string
	Channel    string
	WebhookURL string
	// For testing: inject fakes instead of the real Slack API.
	Client  slackClient
	Webhook webhookPoster
}

// New creates a Slack Notifier.
func New(opts Opts) (*Notifier, error) {
	n := &Notifier{
		client:     opts.Client,
		webhook:    opts.Webhook,
		webhookURL: opts.WebhookURL,
		channel:    opts.Channel,
	}

	if n.webhookURL != "" {
		if n.webhook == nil {
			n.webhook = slackapi.PostWebhookContext
		}
		return n, nil
	}

	if opts.Client == nil {
		if opts.Token == "" {
			return nil, fmt.Errorf("slack: bot token or webhook url is required")
		}
		n.client = slackapi.New(opts.Token)
	}
	if n.channel == "" {
		return nil, fmt.Errorf("slack: channel is required with a bot token")
	}
	return n, nil
}

// Send posts the digest as one message.
func (n *Notifier) Send(ctx context.Context, d digest.Digest) error {
	text := d.Title() + "\n" + d.Body()

	if n.webhookURL != "" {
		if err := n.webhook(ctx, n.webhookURL, &slackapi.WebhookMessage{Text: text}); err != nil {
			return fmt.Errorf("slack: post webhook: %w", err)
		}
		return nil
	}

	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slackapi.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}
