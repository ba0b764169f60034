// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package clients

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"
)

// newTestRetryer returns a Retryer whose sleeps are recorded instead of
// executed, so backoff timing can be asserted without waiting.
func newTestRetryer() (*Retryer, *[]time.Duration) {
	r := NewRetryer()
	var slept []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return r, &slept
}

func TestRetryTransientThenSuccess(t *testing.T) {
	r, slept := newTestRetryer()

	calls := 0
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls <= 2 {
			return &StatusError{Service: "test", StatusCode: http.StatusServiceUnavailable}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 calls, got %d", calls)
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(*slept))
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("sleep %d = %s, want %s", i, (*slept)[i], d)
		}
	}
}

func TestRetryPermanentFailsImmediately(t *testing.T) {
	r, slept := newTestRetryer()

	calls := 0
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return &StatusError{Service: "test", StatusCode: http.StatusNotFound}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("404 must not be retried: got %d calls", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("404 must not sleep: got %v", *slept)
	}
}

func TestRetryExhaustionPropagatesLastError(t *testing.T) {
	r, slept := newTestRetryer()

	calls := 0
	lastErr := &StatusError{Service: "test", StatusCode: http.StatusBadGateway}
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return lastErr
	})
	if !errors.Is(err, lastErr) && err != lastErr {
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
			t.Fatalf("expected last error to propagate, got %v", err)
		}
	}
	// 1 initial attempt + 3 retries.
	if calls != 4 {
		t.Errorf("expected 4 total attempts, got %d", calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("sleep %d = %s, want %s (backoff must double)", i, (*slept)[i], d)
		}
	}
}

func TestRetryContextCancellation(t *testing.T) {
	r := NewRetryer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := r.Do(ctx, "test", func(ctx context.Context) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("canceled context must prevent the call, got %d calls", calls)
	}
}

func TestFetchWithRetryReturnsResult(t *testing.T) {
	r, _ := newTestRetryer()

	calls := 0
	got, err := FetchWithRetry(context.Background(), r, "test", func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, &StatusError{Service: "test", StatusCode: 500}
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 500", &StatusError{StatusCode: 500}, true},
		{"http 503", &StatusError{StatusCode: 503}, true},
		{"http 400", &StatusError{StatusCode: 400}, false},
		{"http 401", &StatusError{StatusCode: 401}, false},
		{"http 404", &StatusError{StatusCode: 404}, false},
		{"http 499", &StatusError{StatusCode: 499}, false},
		{"url error wraps connection refused", &url.Error{Op: "Get", URL: "http://x", Err: syscall.ECONNREFUSED}, true},
		{"plain error", errors.New("boom"), false},
		{"nil-ish decode error", errors.New("failed to decode response"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&StatusError{StatusCode: 404}) {
		t.Error("404 should be not-found")
	}
	if IsNotFound(&StatusError{StatusCode: 500}) {
		t.Error("500 should not be not-found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("plain error should not be not-found")
	}
}
