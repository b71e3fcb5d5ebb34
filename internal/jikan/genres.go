package jikan

import (
	"context"
	"fmt"
)

// AnimeGenres returns Jikan's anime genre list. The list is fetched once per client.
func (c *Client) AnimeGenres(ctx context.Context) ([]Genre, error) {
	c.mu.RLock()
	if c.genres != nil {
		genres := c.genres
		c.mu.RUnlock()
		return genres, nil
	}
	c.mu.RUnlock()

	var response struct {
		Data []Genre `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/genres/anime", c.baseURL), &response); err != nil {
		return nil, err
	}
	if response.Data == nil {
		response.Data = []Genre{}
	}

	c.mu.Lock()
	c.genres = response.Data
	c.mu.Unlock()

	return response.Data, nil
}
