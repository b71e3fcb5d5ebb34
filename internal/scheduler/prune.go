package scheduler

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/bestlastyear/internal/cache"
)

// PruneJob drops expired cache entries that the provider keeps on disk.
type PruneJob struct {
	Cache cache.Cache
}

func (j *PruneJob) Name() string {
	return "cache_prune"
}

func (j *PruneJob) Run(ctx context.Context) error {
	n, err := cache.ClearExpired(ctx, j.Cache)
	if err != nil {
		return err
	}
	slog.Info("Pruned expired cache entries", "count", n)
	return nil
}
