// Package browse holds the client side of the ranked list browser: the
// fetcher that talks to the API and the session state that decides which
// responses are shown.
package browse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
)

const (
	defaultTimeout = 30 * time.Second
	genreParam     = "selected_genres"
)

// ErrNetwork is the single error surfaced for transport failures, non-2xx
// responses and unreadable bodies. Status codes are not distinguished.
var ErrNetwork = errors.New("network response was not ok")

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// FetchFunc loads the ranked list for a content type and genre selection.
type FetchFunc func(ctx context.Context, ct catalog.ContentType, genres []string) ([]catalog.Item, error)

// Fetcher issues best-last-year requests against the API.
type Fetcher struct {
	baseURL    string
	httpClient HTTPDoer
}

// Option is a functional option for configuring the Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// WithTimeout replaces the HTTP client with one using the given timeout.
// Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewFetcher creates a fetcher for the API at baseURL.
func NewFetcher(baseURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL builds the request URL. Each selected genre becomes one repeated
// selected_genres parameter, in the order given.
func (f *Fetcher) URL(ct catalog.ContentType, genres []string) (string, error) {
	path, err := ct.Endpoint()
	if err != nil {
		return "", err
	}

	endpoint := f.baseURL + path
	if len(genres) == 0 {
		return endpoint, nil
	}
	params := url.Values{genreParam: append([]string(nil), genres...)}
	return endpoint + "?" + params.Encode(), nil
}

// Fetch loads the ranked list. Failures other than an unknown content type
// wrap ErrNetwork.
func (f *Fetcher) Fetch(ctx context.Context, ct catalog.ContentType, genres []string) ([]catalog.Item, error) {
	endpoint, err := f.URL(ct, genres)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	items, err := catalog.DecodeList(ct, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return items, nil
}
