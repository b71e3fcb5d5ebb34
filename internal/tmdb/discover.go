package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
	"github.com/lepinkainen/bestlastyear/internal/deeplink"
)

const (
	dateLayout       = "2006-01-02"
	maxDiscoverPages = 20
	minRuntime       = 60
	minVoteCount     = 500
	minVoteAverage   = 6.5
)

// Genres that only describe a film when nothing else does.
var secondaryGenres = []string{"romance", "music"}

// DiscoverOptions bounds a best-rated discover query.
type DiscoverOptions struct {
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, defaults to today
	Limit     int
}

// BestRated pages through /discover/movie sorted by rating and returns up to
// opts.Limit movies released in the window. If a later page fails the movies
// gathered so far are returned.
func (c *Client) BestRated(ctx context.Context, opts DiscoverOptions) ([]catalog.Item, error) {
	if opts.Limit <= 0 {
		return []catalog.Item{}, nil
	}

	genres, err := c.MovieGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("tmdb genres: %w", err)
	}
	idx := newGenreIndex(genres)

	params := c.discoverParams(opts)
	items := make([]catalog.Item, 0, opts.Limit)

	for page := 1; page <= maxDiscoverPages && len(items) < opts.Limit; page++ {
		params.Set("page", strconv.Itoa(page))
		endpoint := fmt.Sprintf("%s/discover/movie?%s", c.baseURL, params.Encode())

		var response discoverPage
		if err := c.getJSON(ctx, endpoint, &response); err != nil {
			if len(items) == 0 {
				return nil, fmt.Errorf("tmdb discover page %d: %w", page, err)
			}
			slog.Warn("TMDB discover stopped early", "page", page, "items", len(items), "error", err)
			break
		}
		if len(response.Results) == 0 {
			break
		}

		for _, result := range response.Results {
			if len(items) >= opts.Limit {
				break
			}
			items = append(items, c.toItem(result, idx))
		}

		if response.TotalPages > 0 && page >= response.TotalPages {
			break
		}
	}

	slog.Debug("Fetched TMDB master list", "items", len(items), "start", opts.StartDate)
	return items, nil
}

func (c *Client) discoverParams(opts DiscoverOptions) url.Values {
	end := opts.EndDate
	if end == "" {
		end = c.now().Format(dateLayout)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("sort_by", "vote_average.desc")
	params.Set("primary_release_date.lte", end)
	if opts.StartDate != "" {
		params.Set("primary_release_date.gte", opts.StartDate)
	}
	params.Set("with_runtime.gte", strconv.Itoa(minRuntime))
	params.Set("vote_count.gte", strconv.Itoa(minVoteCount))
	params.Set("vote_average.gte", strconv.FormatFloat(minVoteAverage, 'f', -1, 64))
	params.Set("language", c.language)
	return params
}

func (c *Client) toItem(result DiscoverResult, idx genreIndex) catalog.Item {
	ids := stripSecondaryGenres(result.GenreIDs, idx)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := idx.names[id]; ok {
			names = append(names, name)
		}
	}

	item := catalog.Item{
		ID:          catalog.ItemID(strconv.Itoa(result.ID)),
		Title:       result.Title,
		ReleaseDate: result.ReleaseDate,
		Rating:      result.VoteAverage,
		Votes:       result.VoteCount,
		GenreIDs:    ids,
		Genres:      names,
		StremioURL:  deeplink.StremioURL(result.Title),
	}
	if result.PosterPath != "" {
		item.PosterURL = c.imageBaseURL + result.PosterPath
	}
	return item
}

// stripSecondaryGenres drops Romance and Music from ids when at least one
// other genre remains.
func stripSecondaryGenres(ids []int, idx genreIndex) []int {
	var drop []int
	for _, name := range secondaryGenres {
		if id, ok := idx.id(name); ok {
			drop = append(drop, id)
		}
	}

	kept := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(drop, id) {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return slices.Clone(ids)
	}
	return kept
}
