package browse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
)

func committed(t *testing.T, s *Session, req Request, items ...catalog.Item) {
	t.Helper()
	require.True(t, s.Commit(Result{Generation: req.Generation, Items: items}))
}

func TestSessionStartIssuesLoadingRequest(t *testing.T) {
	s := NewSession(catalog.Movie)

	req := s.Start()

	assert.Equal(t, Generation(1), req.Generation)
	assert.Equal(t, catalog.Movie, req.ContentType)
	assert.Empty(t, req.Genres)
	assert.True(t, s.Loading())
}

func TestSessionCommitBuildsFacets(t *testing.T) {
	s := NewSession(catalog.Movie)
	req := s.Start()

	committed(t, s, req,
		catalog.Item{Title: "A", Genres: []string{"Action", "Drama"}},
		catalog.Item{Title: "B", Genres: []string{"Action"}},
	)

	assert.False(t, s.Loading())
	assert.NoError(t, s.Err())
	assert.Len(t, s.Items(), 2)
	assert.Equal(t, []catalog.GenreFacet{{Name: "Action", Count: 2}, {Name: "Drama", Count: 1}}, s.Facets())
}

func TestSessionSwitchContentTypeClearsImmediately(t *testing.T) {
	s := NewSession(catalog.Movie)
	committed(t, s, s.Start(), catalog.Item{Title: "A", Genres: []string{"Action"}})
	s.SelectGenre("Action")

	req, changed, err := s.SetContentType(catalog.Anime)
	require.NoError(t, err)
	require.True(t, changed)

	// before the new fetch resolves
	assert.Empty(t, s.Selection().Genres())
	assert.Empty(t, s.Items())
	assert.Empty(t, s.Facets())
	assert.True(t, s.Loading())
	assert.Equal(t, catalog.Anime, req.ContentType)
	assert.Empty(t, req.Genres)
}

func TestSessionSameContentTypeIsNoop(t *testing.T) {
	s := NewSession(catalog.Movie)
	req := s.Start()
	committed(t, s, req, catalog.Item{Title: "A"})

	_, changed, err := s.SetContentType(catalog.Movie)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, req.Generation, s.Generation())
}

func TestSessionRejectsUnknownContentType(t *testing.T) {
	s := NewSession(catalog.Movie)

	_, changed, err := s.SetContentType(catalog.ContentType(5))
	assert.False(t, changed)
	assert.ErrorIs(t, err, catalog.ErrUnknownContentType)
	assert.Equal(t, catalog.Movie, s.Selection().ContentType())
}

func TestToggleGenreTwiceRestoresSelection(t *testing.T) {
	sel := NewSelection(catalog.Movie)
	sel.ToggleGenre("Drama")
	before := sel

	sel.ToggleGenre("Action")
	assert.True(t, sel.IsSelected("Action"))
	sel.ToggleGenre("Action")

	assert.Equal(t, before.ContentType(), sel.ContentType())
	assert.Equal(t, before.Genres(), sel.Genres())
	assert.Equal(t, []string{"Drama"}, sel.Genres())
}

func TestToggleGenreDoesNotAliasCopies(t *testing.T) {
	sel := NewSelection(catalog.Movie)
	sel.ToggleGenre("A")
	sel.ToggleGenre("B")
	snapshot := sel

	sel.ToggleGenre("A")

	assert.Equal(t, []string{"A", "B"}, snapshot.Genres())
	assert.Equal(t, []string{"B"}, sel.Genres())
}

func TestSessionLatestIssuedRequestWins(t *testing.T) {
	s := NewSession(catalog.Movie)
	first := s.SelectGenre("Action")
	second := s.SelectGenre("Drama")

	// second resolves first
	assert.True(t, s.Commit(Result{Generation: second.Generation, Items: []catalog.Item{{Title: "second"}}}))
	assert.False(t, s.Commit(Result{Generation: first.Generation, Items: []catalog.Item{{Title: "first"}}}))

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "second", s.Items()[0].Title)
	assert.False(t, s.Loading())
}

func TestSessionStaleResultKeepsLoading(t *testing.T) {
	s := NewSession(catalog.Movie)
	first := s.Start()
	s.SelectGenre("Drama")

	assert.False(t, s.Commit(Result{Generation: first.Generation, Err: errors.New("late failure")}))
	assert.True(t, s.Loading())
	assert.NoError(t, s.Err())
}

func TestSessionErrorReplacesList(t *testing.T) {
	s := NewSession(catalog.Movie)
	committed(t, s, s.Start(), catalog.Item{Title: "A", Genres: []string{"Drama"}})

	req := s.SelectGenre("Drama")
	require.True(t, s.Commit(Result{Generation: req.Generation, Err: ErrNetwork}))

	assert.ErrorIs(t, s.Err(), ErrNetwork)
	assert.Empty(t, s.Items())
	assert.Empty(t, s.Facets())
	assert.False(t, s.Loading())

	// a new user action retries and clears the error
	s.SelectGenre("Drama")
	assert.NoError(t, s.Err())
	assert.True(t, s.Loading())
}

func TestRequestRun(t *testing.T) {
	var gotType catalog.ContentType
	var gotGenres []string
	fetch := func(_ context.Context, ct catalog.ContentType, genres []string) ([]catalog.Item, error) {
		gotType, gotGenres = ct, genres
		return []catalog.Item{{Title: "X"}}, nil
	}

	res := Request{Generation: 4, ContentType: catalog.Anime, Genres: []string{"Mecha"}}.Run(context.Background(), fetch)

	assert.Equal(t, Generation(4), res.Generation)
	assert.Equal(t, catalog.Anime, gotType)
	assert.Equal(t, []string{"Mecha"}, gotGenres)
	assert.NoError(t, res.Err)
	assert.Len(t, res.Items, 1)
}
