package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const movieMediaType = "movie"

// MovieGenres returns TMDB's movie genre list. The list is fetched once per client.
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	return c.getGenres(ctx, movieMediaType)
}

func (c *Client) getGenres(ctx context.Context, mediaType string) ([]Genre, error) {
	c.mu.RLock()
	if genres, ok := c.genreCache[mediaType]; ok {
		c.mu.RUnlock()
		return genres, nil
	}
	c.mu.RUnlock()

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	endpoint := fmt.Sprintf("%s/genre/%s/list?%s", c.baseURL, mediaType, params.Encode())

	var response struct {
		Genres []Genre `json:"genres"`
	}

	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.genreCache[mediaType] = response.Genres
	c.mu.Unlock()

	return response.Genres, nil
}

// genreIndex maps genre ids to names and lower-cased names to ids.
type genreIndex struct {
	names map[int]string
	ids   map[string]int
}

func newGenreIndex(genres []Genre) genreIndex {
	idx := genreIndex{
		names: make(map[int]string, len(genres)),
		ids:   make(map[string]int, len(genres)),
	}
	for _, g := range genres {
		idx.names[g.ID] = g.Name
		idx.ids[strings.ToLower(g.Name)] = g.ID
	}
	return idx
}

func (idx genreIndex) id(name string) (int, bool) {
	id, ok := idx.ids[strings.ToLower(name)]
	return id, ok
}
