// Package notify reports unexpected request failures to the operators.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrorReport describes one failed request.
type ErrorReport struct {
	RequestID string
	Method    string
	Path      string
	Message   string
	Time      time.Time
}

// Notifier delivers error reports.
type Notifier interface {
	NotifyError(ctx context.Context, report ErrorReport) error
}

// Nop discards every report.
type Nop struct{}

// NotifyError implements Notifier.
func (Nop) NotifyError(context.Context, ErrorReport) error { return nil }

// Slack posts reports to an incoming webhook.
type Slack struct {
	webhookURL string
	channel    string
	client     *http.Client
}

// NewSlack creates a Slack notifier.
func NewSlack(webhookURL, channel string, timeout time.Duration) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		channel:    channel,
		client:     &http.Client{Timeout: timeout},
	}
}

type slackMessage struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// NotifyError implements Notifier.
func (s *Slack) NotifyError(ctx context.Context, report ErrorReport) error {
	body, err := json.Marshal(slackMessage{
		Channel: s.channel,
		Text: fmt.Sprintf("*Unexpected error* `%s %s`\nrequest: %s\ntime: %s\n```%s```",
			report.Method, report.Path, report.RequestID, report.Time.UTC().Format(time.RFC3339), report.Message),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned %s", resp.Status)
	}
	return nil
}

// New returns a Slack notifier when webhookURL is set and Nop otherwise.
func New(webhookURL, channel string, timeout time.Duration) Notifier {
	if webhookURL == "" {
		return Nop{}
	}
	return NewSlack(webhookURL, channel, timeout)
}
