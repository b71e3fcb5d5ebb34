package cmd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bestlastyear/internal/cache"
	"github.com/lepinkainen/bestlastyear/internal/config"
	"github.com/lepinkainen/bestlastyear/internal/jikan"
	"github.com/lepinkainen/bestlastyear/internal/ranking"
	"github.com/lepinkainen/bestlastyear/internal/scheduler"
	"github.com/lepinkainen/bestlastyear/internal/server"
	"github.com/lepinkainen/bestlastyear/internal/tmdb"
)

var listenAndServe = func(ctx context.Context, srv *server.Server, addr string) error {
	return srv.ListenAndServe(ctx, addr)
}

// ServeCmd runs the API server and the cache warm-up schedule
type ServeCmd struct {
	Addr     string `help:"Listen address (defaults to server.address in config)"`
	NoWarmup bool   `help:"Disable the scheduled master list warm-up"`
}

func (s *ServeCmd) Run(ctx context.Context, cfg *config.Config, store cache.Cache) error {
	if cfg.TMDB.APIKey == "" {
		return errors.New("TMDB API key is required (set TMDB_API_KEY or tmdb.apikey in config)")
	}

	svc := ranking.NewService(
		ranking.TMDBSource{Client: tmdb.NewClient(cfg.TMDB.APIKey, tmdb.WithBaseURL(cfg.TMDB.BaseURL))},
		ranking.JikanSource{Client: jikan.NewClient(jikan.WithBaseURL(cfg.Jikan.BaseURL))},
		store,
	)

	if schedule := cfg.Warmup.Schedule; schedule != "" && !s.NoWarmup {
		sched := scheduler.New()
		warmup := &scheduler.WarmupJob{Warmer: svc}
		if err := sched.AddJob(schedule, warmup); err != nil {
			return fmt.Errorf("invalid warmup.schedule: %w", err)
		}
		if err := sched.AddJob(schedule, &scheduler.PruneJob{Cache: store}); err != nil {
			return fmt.Errorf("invalid warmup.schedule: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		// lists are built once at startup, the schedule keeps them fresh
		warmCtx, cancelWarm := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := sched.RunJobNow(warmCtx, warmup.Name()); err != nil {
				slog.Warn("Startup warm-up failed", "error", err)
			}
		}()
		defer func() {
			cancelWarm()
			<-done
		}()
	}

	srv, err := server.New(server.Config{Ranker: svc})
	if err != nil {
		return err
	}
	return listenAndServe(ctx, srv, cmp.Or(s.Addr, cfg.Server.Address))
}
