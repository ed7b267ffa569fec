package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSlackNotifyError(t *testing.T) {
	var got slackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlack(srv.URL, "#alerts", time.Second)
	err := n.NotifyError(context.Background(), ErrorReport{
		RequestID: "req-1",
		Method:    "POST",
		Path:      "/api/book-groups",
		Message:   "boom",
		Time:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NotifyError() error = %v", err)
	}
	if got.Channel != "#alerts" {
		t.Errorf("channel = %q, want #alerts", got.Channel)
	}
	for _, want := range []string{"POST /api/book-groups", "req-1", "boom", "2026-03-01T09:00:00Z"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("text %q does not contain %q", got.Text, want)
		}
	}
}

func TestSlackNotifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewSlack(srv.URL, "", time.Second).NotifyError(context.Background(), ErrorReport{})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestNewPicksNopWithoutWebhook(t *testing.T) {
	if _, ok := New("", "", time.Second).(Nop); !ok {
		t.Error("expected Nop when webhook URL is empty")
	}
	if _, ok := New("https://hooks.slack.com/services/x", "", time.Second).(*Slack); !ok {
		t.Error("expected Slack when webhook URL is set")
	}
}
