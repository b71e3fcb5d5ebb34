// Package jikan provides a client for the Jikan (unofficial MyAnimeList) API.
package jikan

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lepinkainen/bestlastyear/internal/ratelimit"
)

const (
	defaultBaseURL      = "https://api.jikan.moe/v4"
	defaultPageInterval = 500 * time.Millisecond
	defaultRetryDelay   = 2 * time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a Jikan API client.
type Client struct {
	baseURL     string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
	retryDelay  time.Duration
	mu          sync.RWMutex
	genres      []Genre
}

// NewClient creates a new Jikan API client. Jikan needs no API key.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		rateLimiter: ratelimit.Every("Jikan", defaultPageInterval),
		retryDelay:  defaultRetryDelay,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the Jikan API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter sets the rate limiter for the client. Nil disables limiting.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}

// WithRetryDelay sets how long to wait before retrying a 429 response that
// carries no Retry-After header.
func WithRetryDelay(d time.Duration) Option {
	return func(client *Client) {
		if d >= 0 {
			client.retryDelay = d
		}
	}
}
