package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bestlastyear/internal/cache"
	"github.com/lepinkainen/bestlastyear/internal/metrics"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := New()
	job := &countingJob{name: "every_second"}
	require.NoError(t, s.AddJob("* * * * * *", job))

	s.Start()
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestAddJobRejectsDuplicatesAndBadSpecs(t *testing.T) {
	s := New()
	require.NoError(t, s.AddJob("0 0 4 * * *", &countingJob{name: "warm"}))

	err := s.AddJob("0 0 5 * * *", &countingJob{name: "warm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = s.AddJob("not a spec", &countingJob{name: "broken"})
	require.Error(t, err)
}

func TestRunJobNow(t *testing.T) {
	s := New()
	job := &countingJob{name: "manual", err: errors.New("upstream down")}
	require.NoError(t, s.AddJob("0 0 4 * * *", job))

	err := s.RunJobNow(context.Background(), "manual")
	require.EqualError(t, err, "upstream down")
	assert.Equal(t, int32(1), job.runs.Load())

	require.Error(t, s.RunJobNow(context.Background(), "missing"))
}

func TestStopWithoutStart(t *testing.T) {
	s := New()
	s.Stop()
}

type fakeWarmer struct{ err error }

func (w fakeWarmer) Warm(context.Context) error { return w.err }

func TestWarmupJobRecordsOutcome(t *testing.T) {
	ok := testutil.ToFloat64(metrics.WarmupRunsTotal.WithLabelValues("ok"))
	failed := testutil.ToFloat64(metrics.WarmupRunsTotal.WithLabelValues("error"))

	job := &WarmupJob{Warmer: fakeWarmer{}}
	assert.Equal(t, "master_list_warmup", job.Name())
	require.NoError(t, job.Run(context.Background()))

	job = &WarmupJob{Warmer: fakeWarmer{err: errors.New("boom")}}
	require.Error(t, job.Run(context.Background()))

	assert.Equal(t, ok+1, testutil.ToFloat64(metrics.WarmupRunsTotal.WithLabelValues("ok")))
	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.WarmupRunsTotal.WithLabelValues("error")))
}

type ctxJob struct{ seen error }

func (j *ctxJob) Name() string { return "ctx" }

func (j *ctxJob) Run(ctx context.Context) error {
	j.seen = ctx.Err()
	return j.seen
}

func TestRunJobNowHonoursCallerContext(t *testing.T) {
	s := New()
	job := &ctxJob{}
	require.NoError(t, s.AddJob("0 0 4 * * *", job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.RunJobNow(ctx, "ctx")
	require.ErrorIs(t, err, context.Canceled)
}

type countingPruner struct {
	cache.Cache
	calls int
}

func (p *countingPruner) ClearExpired(context.Context) (int64, error) {
	p.calls++
	return 3, nil
}

func TestPruneJobClearsExpiredEntries(t *testing.T) {
	pruner := &countingPruner{}
	job := &PruneJob{Cache: pruner}

	assert.Equal(t, "cache_prune", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, pruner.calls)
}

func TestPruneJobSkipsSelfExpiringProviders(t *testing.T) {
	store, err := cache.New("memory", cache.ProviderConfig{TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, (&PruneJob{Cache: store}).Run(context.Background()))
}
