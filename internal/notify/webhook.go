// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package notify posts fire-and-forget webhook notifications for sync
// and deletion events.
package notify

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mpellat/janitarr/internal/logging"
)

// Event is one webhook payload.
type Event struct {
	Type      string      `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Event types.
const (
	EventUserSignup      = "user.signup"
	EventSyncCompleted   = "sync.completed"
	EventDeleteCompleted = "delete.completed"
)

// Notifier posts events to a configured webhook URL. Delivery is best
// effort: failures are logged and never surface to the caller, and
// posting happens off the request path.
type Notifier struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewNotifier creates a webhook notifier. An empty URL disables it.
func NewNotifier(url string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Enabled reports whether a webhook URL is configured. Safe on a nil
// receiver so callers can treat the notifier as optional.
func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

// Publish sends the event in a detached goroutine and returns
// immediately.
func (n *Notifier) Publish(eventType, userID string, data interface{}) {
	if !n.Enabled() {
		return
	}
	event := Event{Type: eventType, UserID: userID, Timestamp: time.Now().UTC(), Data: data}
	go n.post(event)
}

func (n *Notifier) post(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		logging.Warn().Err(err).Str("type", event.Type).Msg("Failed to encode webhook event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		logging.Warn().Err(err).Str("type", event.Type).Msg("Webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		logging.Warn().Int("status", resp.StatusCode).Str("type", event.Type).Msg("Webhook endpoint rejected event")
	}
}
