package scheduler

import (
	"context"

	"github.com/lepinkainen/bestlastyear/internal/metrics"
)

// Warmer builds cached data ahead of requests.
type Warmer interface {
	Warm(ctx context.Context) error
}

// WarmupJob refreshes the cached master lists.
type WarmupJob struct {
	Warmer Warmer
}

func (j *WarmupJob) Name() string {
	return "master_list_warmup"
}

func (j *WarmupJob) Run(ctx context.Context) error {
	err := j.Warmer.Warm(ctx)
	metrics.WarmupRunsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	return err
}
