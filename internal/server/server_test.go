package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
	"github.com/lepinkainen/bestlastyear/internal/metrics"
)

type fakeRanker struct {
	resp    catalog.ListResponse
	err     error
	genres  map[catalog.ContentType][]catalog.GenreRef
	gotType catalog.ContentType
	filter  catalog.GenreFilter
}

func (f *fakeRanker) BestLastYear(_ context.Context, ct catalog.ContentType, filter catalog.GenreFilter) (catalog.ListResponse, error) {
	f.gotType = ct
	f.filter = filter
	if f.err != nil {
		return catalog.ListResponse{}, f.err
	}
	resp := f.resp
	resp.Type = ct
	return resp, nil
}

func (f *fakeRanker) Genres(_ context.Context, ct catalog.ContentType) []catalog.GenreRef {
	if g, ok := f.genres[ct]; ok {
		return g
	}
	return []catalog.GenreRef{}
}

func newTestServer(t *testing.T, ranker Ranker) *httptest.Server {
	t.Helper()
	srv, err := New(Config{Ranker: ranker, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, target any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp
}

func TestNewRequiresRanker(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestMoviesBestLastYear(t *testing.T) {
	ranker := &fakeRanker{resp: catalog.ListResponse{
		Items:           []catalog.Item{{ID: "693134", Title: "Dune: Part Two", Rating: 8.2, Votes: 5400, Genres: []string{"Action"}}},
		AvailableGenres: []catalog.GenreRef{{ID: 28, Name: "Action"}},
	}}
	ts := newTestServer(t, ranker)

	var body map[string]json.RawMessage
	resp := getJSON(t, ts.URL+"/api/movies/best-last-year?selected_genres=Action&selected_genres=Drama&excluded_genres=Horror", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, catalog.Movie, ranker.gotType)
	assert.Equal(t, []string{"Action", "Drama"}, ranker.filter.Include)
	assert.Equal(t, []string{"Horror"}, ranker.filter.Exclude)

	require.Contains(t, body, "movies")
	assert.NotContains(t, body, "anime")
	assert.JSONEq(t, `[{"id":28,"name":"Action"}]`, string(body["available_genres"]))

	items, err := catalog.DecodeList(catalog.Movie, bytesReader(body))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dune: Part Two", items[0].Title)
}

func TestAnimeBestLastYearUsesAnimeKey(t *testing.T) {
	ts := newTestServer(t, &fakeRanker{})

	var body map[string]json.RawMessage
	resp := getJSON(t, ts.URL+"/api/anime/best-last-year", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body["anime"]))
	assert.JSONEq(t, `[]`, string(body["available_genres"]))
}

func TestBestLastYearFailureReturnsDetail(t *testing.T) {
	ts := newTestServer(t, &fakeRanker{err: errors.New("tmdb discover page 1: provider unavailable")})

	var body map[string]string
	resp := getJSON(t, ts.URL+"/api/movies/best-last-year", &body)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, map[string]string{"detail": "tmdb discover page 1: provider unavailable"}, body)
}

func TestGenreEndpoints(t *testing.T) {
	ts := newTestServer(t, &fakeRanker{genres: map[catalog.ContentType][]catalog.GenreRef{
		catalog.Movie: {{ID: 28, Name: "Action"}},
		catalog.Anime: {{ID: 1, Name: "Action"}, {ID: 2, Name: "Adventure"}},
	}})

	var movies, anime []map[string]any
	getJSON(t, ts.URL+"/api/genres", &movies)
	getJSON(t, ts.URL+"/api/anime/genres", &anime)

	assert.Equal(t, []map[string]any{{"id": float64(28), "name": "Action"}}, movies)
	assert.Len(t, anime, 2)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, &fakeRanker{})

	var health map[string]string
	resp := getJSON(t, ts.URL+"/healthz", &health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health["status"])

	res, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(raw), "bestlastyear_http_requests_total")
}

func TestUnknownRouteIs404(t *testing.T) {
	ts := newTestServer(t, &fakeRanker{})

	var body map[string]string
	resp := getJSON(t, ts.URL+"/api/tv/best-last-year", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", body["detail"])
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	ts := newTestServer(t, &fakeRanker{})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/anime/best-last-year", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestRequestsAreCountedByRoute(t *testing.T) {
	ts := newTestServer(t, &fakeRanker{})
	counter := metrics.HTTPRequestsTotal.WithLabelValues("/api/anime/genres", "200")
	before := testutil.ToFloat64(counter)

	getJSON(t, ts.URL+"/api/anime/genres", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestAdaptStatusError(t *testing.T) {
	h := Adapt(func(http.ResponseWriter, *http.Request) error {
		return &Error{Status: http.StatusBadRequest, Message: "bad genre"}
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"bad genre"}`, rec.Body.String())
	assert.Equal(t, "bad genre code=400", (&Error{Status: 400, Message: "bad genre"}).Error())
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, err := New(Config{Ranker: &fakeRanker{}})
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func bytesReader(body map[string]json.RawMessage) io.Reader {
	raw, _ := json.Marshal(body)
	return bytes.NewReader(raw)
}
