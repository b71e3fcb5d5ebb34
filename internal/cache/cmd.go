package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// Key prefixes of the cached master lists per upstream source.
var sourcePrefixes = map[string]string{
	"tmdb":  "master_movie_",
	"jikan": "master_anime_",
	"all":   "",
}

// ClearCmd represents the cache clear subcommand
type ClearCmd struct {
	Source string `arg:"" enum:"tmdb,jikan,all" help:"Cache source to clear: tmdb, jikan or all"`
}

func (c *ClearCmd) Run(ctx context.Context, store Cache) error {
	prefix, ok := sourcePrefixes[c.Source]
	if !ok {
		return fmt.Errorf("invalid cache source '%s'; valid sources are: tmdb, jikan, all", c.Source)
	}

	slog.Info("Clearing cache", "source", c.Source)

	rows, err := store.DeletePrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	slog.Info("Cache cleared", "source", c.Source, "entries_deleted", rows)
	return nil
}
