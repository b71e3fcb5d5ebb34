package ranking

import (
	"context"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
	"github.com/lepinkainen/bestlastyear/internal/jikan"
	"github.com/lepinkainen/bestlastyear/internal/tmdb"
)

// Source builds the rating-sorted master list for one content type.
type Source interface {
	// BestRated returns up to limit items released on or after start
	// (YYYY-MM-DD), best rated first.
	BestRated(ctx context.Context, start string, limit int) ([]catalog.Item, error)
	// Genres returns the provider's full genre list.
	Genres(ctx context.Context) ([]catalog.GenreRef, error)
}

// TMDBSource serves movies from TMDB.
type TMDBSource struct {
	Client *tmdb.Client
}

func (s TMDBSource) BestRated(ctx context.Context, start string, limit int) ([]catalog.Item, error) {
	return s.Client.BestRated(ctx, tmdb.DiscoverOptions{StartDate: start, Limit: limit})
}

func (s TMDBSource) Genres(ctx context.Context) ([]catalog.GenreRef, error) {
	genres, err := s.Client.MovieGenres(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]catalog.GenreRef, len(genres))
	for i, g := range genres {
		refs[i] = catalog.GenreRef{ID: g.ID, Name: g.Name}
	}
	return refs, nil
}

// JikanSource serves anime from Jikan.
type JikanSource struct {
	Client *jikan.Client
}

func (s JikanSource) BestRated(ctx context.Context, start string, limit int) ([]catalog.Item, error) {
	return s.Client.BestRated(ctx, jikan.SearchOptions{StartDate: start, Limit: limit})
}

func (s JikanSource) Genres(ctx context.Context) ([]catalog.GenreRef, error) {
	genres, err := s.Client.AnimeGenres(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]catalog.GenreRef, len(genres))
	for i, g := range genres {
		refs[i] = catalog.GenreRef{ID: g.ID, Name: g.Name}
	}
	return refs, nil
}
