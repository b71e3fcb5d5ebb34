package tmdb

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bestlastyear/internal/ratelimit"
)

func TestClientOptionsApply(t *testing.T) {
	customHTTP := &http.Client{}
	limiter := ratelimit.New("TMDB", 2)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	client := NewClient(
		"key",
		WithBaseURL("https://example.test/"),
		WithImageBaseURL("https://images.test/"),
		WithHTTPClient(customHTTP),
		WithRetryAttempts(5),
		WithRateLimiter(limiter),
		WithClock(func() time.Time { return fixed }),
	)

	require.Equal(t, "https://example.test", client.baseURL)
	require.Equal(t, "https://images.test", client.imageBaseURL)
	require.Equal(t, customHTTP, client.httpClient)
	require.Equal(t, 5, client.retryAttempts)
	require.Equal(t, limiter, client.rateLimiter)
	require.Equal(t, fixed, client.now())
}

func TestClientOptionsIgnoreZeroValues(t *testing.T) {
	client := NewClient("key", WithBaseURL(""), WithHTTPClient(nil), WithRetryAttempts(0), WithClock(nil))

	require.Equal(t, defaultBaseURL, client.baseURL)
	require.Equal(t, defaultImageBaseURL, client.imageBaseURL)
	require.NotNil(t, client.httpClient)
	require.Equal(t, defaultMaxAttempts, client.retryAttempts)
	require.NotNil(t, client.now)
	require.NotNil(t, client.rateLimiter)
}
