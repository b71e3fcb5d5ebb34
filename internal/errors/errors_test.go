package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("slow down")

	if err.Error() != "slow down" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "slow down")
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}

	wrapped := stdErrors.Join(err)
	if !IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned false for wrapped RateLimitError")
	}
}

func TestRateLimitErrorWithRetry(t *testing.T) {
	err := NewRateLimitErrorWithRetry("too many requests", 2*time.Minute)

	expected := "too many requests (retry after 2m0s)"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitErrorWithRetry")
	}

	if err.RetryAfter.Minutes() != 2.0 {
		t.Fatalf("RetryAfter = %v, want 2 minutes", err.RetryAfter)
	}
}

func TestRateLimitErrorWithRetry_ZeroDuration(t *testing.T) {
	err := NewRateLimitErrorWithRetry("rate limited", 0)

	expected := "rate limited"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{name: "wrapped with delay", err: fmt.Errorf("jikan: %w", NewRateLimitErrorWithRetry("429", 5*time.Second)), want: 5 * time.Second},
		{name: "no delay", err: NewRateLimitError("429"), want: 2 * time.Second},
		{name: "other error", err: stdErrors.New("boom"), want: 2 * time.Second},
		{name: "nil", err: nil, want: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RetryAfter(tt.err, 2*time.Second); got != tt.want {
				t.Fatalf("RetryAfter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpstreamError_Messages(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		expected string
	}{
		{401, "Invalid API key: You must be granted a valid key.", "TMDB: invalid API key (HTTP 401): Invalid API key: You must be granted a valid key."},
		{403, "", "TMDB: access forbidden (HTTP 403)"},
		{404, "", "TMDB: not found (HTTP 404)"},
		{429, "", "TMDB: too many requests (HTTP 429)"},
		{503, "maintenance", "TMDB: provider unavailable (HTTP 503): maintenance"},
		{418, "", "TMDB: unexpected status (HTTP 418)"},
	}

	for _, tt := range tests {
		err := NewUpstreamError("TMDB", tt.status, tt.body)
		if err.Error() != tt.expected {
			t.Fatalf("Error message = %q, want %q", err.Error(), tt.expected)
		}
		if err.StatusCode != tt.status {
			t.Fatalf("StatusCode = %d, want %d", err.StatusCode, tt.status)
		}
	}
}

func TestUpstreamError_Wrapped(t *testing.T) {
	err := NewUpstreamError("Jikan", 500, "")
	wrapped := stdErrors.Join(err, stdErrors.New("additional context"))

	if !IsUpstreamError(wrapped) {
		t.Fatalf("IsUpstreamError returned false for wrapped UpstreamError")
	}
	if IsUpstreamError(stdErrors.New("plain")) {
		t.Fatalf("IsUpstreamError returned true for a plain error")
	}
}
