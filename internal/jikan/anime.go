package jikan

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
	"github.com/lepinkainen/bestlastyear/internal/deeplink"
)

const (
	maxPages      = 15
	pageSize      = 25
	minScore      = 6.5
	unknownAiring = "Unknown"
)

// SearchOptions bounds a best-rated anime query.
type SearchOptions struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD, optional
	Limit     int
}

// BestRated pages through TV anime ordered by score and returns up to
// opts.Limit entries that started airing in the window. If a later page fails
// the entries gathered so far are returned.
func (c *Client) BestRated(ctx context.Context, opts SearchOptions) ([]catalog.Item, error) {
	if opts.Limit <= 0 {
		return []catalog.Item{}, nil
	}

	params := searchParams(opts)
	items := make([]catalog.Item, 0, opts.Limit)

	for page := 1; page <= maxPages && len(items) < opts.Limit; page++ {
		params.Set("page", strconv.Itoa(page))
		endpoint := fmt.Sprintf("%s/anime?%s", c.baseURL, params.Encode())

		var response animePage
		if err := c.getJSON(ctx, endpoint, &response); err != nil {
			if len(items) == 0 {
				return nil, fmt.Errorf("jikan anime page %d: %w", page, err)
			}
			slog.Warn("Jikan search stopped early", "page", page, "items", len(items), "error", err)
			break
		}
		if len(response.Data) == 0 {
			break
		}

		for _, anime := range response.Data {
			if len(items) >= opts.Limit {
				break
			}
			items = append(items, toItem(anime))
		}

		if !response.Pagination.HasNextPage {
			break
		}
	}

	slog.Debug("Fetched Jikan master list", "items", len(items), "start", opts.StartDate)
	return items, nil
}

func searchParams(opts SearchOptions) url.Values {
	params := url.Values{}
	params.Set("order_by", "score")
	params.Set("sort", "desc")
	params.Set("min_score", strconv.FormatFloat(minScore, 'f', -1, 64))
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("type", "tv")
	if opts.StartDate != "" {
		params.Set("start_date", opts.StartDate)
	}
	if opts.EndDate != "" {
		params.Set("end_date", opts.EndDate)
	}
	return params
}

func toItem(anime Anime) catalog.Item {
	title := anime.TitleEnglish
	if title == "" {
		title = anime.Title
	}

	poster := anime.Images.JPG.LargeImageURL
	if poster == "" {
		poster = anime.Images.JPG.ImageURL
	}

	genres := make([]string, 0, len(anime.Genres))
	for _, g := range anime.Genres {
		genres = append(genres, g.Name)
	}

	var id catalog.ItemID
	if anime.MalID != 0 {
		id = catalog.ItemID(strconv.Itoa(anime.MalID))
	}

	return catalog.Item{
		ID:          id,
		Title:       title,
		ReleaseDate: airedDate(anime.Aired.From),
		Rating:      anime.Score,
		Votes:       anime.ScoredBy,
		Genres:      genres,
		PosterURL:   poster,
		StremioURL:  deeplink.StremioURL(title),
	}
}

func airedDate(from string) string {
	if from == "" {
		return unknownAiring
	}
	date, _, _ := strings.Cut(from, "T")
	return date
}
