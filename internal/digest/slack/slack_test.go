package slack

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/Kilerd/todoki/internal/digest"
	"github.com/Kilerd/todoki/internal/report"
)

type fakeClient struct {
	channel string
	options []slackapi.MsgOption
	err     error
}

func (f *fakeClient) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	f.channel = channelID
	f.options = options
	return "", "", f.err
}

func sampleDigest() digest.Digest {
	return digest.Digest{
		Date:   time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
		Report: &report.Report{Period: report.PeriodToday, Created: 2, Done: 1},
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New(Opts{}); err == nil {
		t.Error("expected error without token or webhook")
	}
	if _, err := New(Opts{Token: "xoxb-1"}); err == nil {
		t.Error("expected error without channel")
	}
	if _, err := New(Opts{Token: "xoxb-1", Channel: "C1"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := New(Opts{WebhookURL: "https://hooks.slack.com/x"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSend_BotToken(t *testing.T) {
	fake := &fakeClient{}
	n, err := New(Opts{Client: fake, Channel: "C042"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := n.Send(context.Background(), sampleDigest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.channel != "C042" {
		t.Errorf("channel = %q, want C042", fake.channel)
	}
	if len(fake.options) == 0 {
		t.Error("no message options passed")
	}
}

func TestSend_BotTokenError(t *testing.T) {
	fake := &fakeClient{err: errors.New("channel_not_found")}
	n, err := New(Opts{Client: fake, Channel: "C042"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = n.Send(context.Background(), sampleDigest())
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("err = %v, want wrapped API error", err)
	}
}

func TestSend_Webhook(t *testing.T) {
	var gotURL, gotText string
	webhook := func(ctx context.Context, url string, msg *slackapi.WebhookMessage) error {
		gotURL = url
		gotText = msg.Text
		return nil
	}

	n, err := New(Opts{WebhookURL: "https://hooks.slack.com/x", Webhook: webhook})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := n.Send(context.Background(), sampleDigest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotURL != "https://hooks.slack.com/x" {
		t.Errorf("url = %q, want the webhook url", gotURL)
	}
	if !strings.Contains(gotText, "Created: 2") {
		t.Errorf("text = %q, want the digest body", gotText)
	}
	if !strings.Contains(gotText, "Mar 14, 2026") {
		t.Errorf("text = %q, want the digest date", gotText)
	}
}
