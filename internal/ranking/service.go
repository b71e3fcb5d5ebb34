// Package ranking builds the filtered "best of the last year" lists served by
// the API from cached upstream master lists.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lepinkainen/bestlastyear/internal/cache"
	"github.com/lepinkainen/bestlastyear/internal/catalog"
	"github.com/lepinkainen/bestlastyear/internal/metrics"
)

const (
	// ListLimit caps both the master list and a filtered response.
	ListLimit = 300
	// Window is how far back the release date window reaches.
	Window     = 365 * 24 * time.Hour
	dateLayout = "2006-01-02"
)

// Service answers best-last-year queries for every configured content type.
type Service struct {
	sources map[catalog.ContentType]Source
	cache   cache.Cache
	now     func() time.Time
	flight  singleflight.Group
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithClock overrides the clock used to compute the release window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service. A nil cache fetches the master list on every
// request.
func NewService(movies, anime Source, store cache.Cache, opts ...Option) *Service {
	s := &Service{
		sources: map[catalog.ContentType]Source{
			catalog.Movie: movies,
			catalog.Anime: anime,
		},
		cache: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) source(ct catalog.ContentType) (Source, error) {
	src, ok := s.sources[ct]
	if !ok || src == nil {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownContentType, ct)
	}
	return src, nil
}

// StartDate is the first release date inside the window.
func (s *Service) StartDate() string {
	return s.now().Add(-Window).Format(dateLayout)
}

// MasterKey is the cache key of a master list. The end date is open.
func MasterKey(ct catalog.ContentType, start, end string) string {
	return fmt.Sprintf("master_%s_%s_%s", ct, start, end)
}

// MasterList returns the unfiltered list for ct, from the cache when fresh.
// Empty lists are not cached so an upstream outage is retried on the next call.
// Concurrent callers for the same list share one lookup and upstream build.
func (s *Service) MasterList(ctx context.Context, ct catalog.ContentType) ([]catalog.Item, error) {
	fetch, key, err := s.masterFetch(ct)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		items, _, err := cache.GetOrFetchWithPolicy(context.WithoutCancel(ctx), s.cache, key, fetch, nonEmpty)
		return items, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s master list: %w", ct, err)
	}
	return v.([]catalog.Item), nil
}

// Refresh rebuilds the master list for ct from upstream and replaces the
// cached copy, even when that copy is still fresh.
func (s *Service) Refresh(ctx context.Context, ct catalog.ContentType) ([]catalog.Item, error) {
	fetch, key, err := s.masterFetch(ct)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.flight.Do("refresh:"+key, func() (any, error) {
		return cache.Refresh(ctx, s.cache, key, fetch, nonEmpty)
	})
	if err != nil {
		return nil, fmt.Errorf("%s master list refresh: %w", ct, err)
	}
	return v.([]catalog.Item), nil
}

func nonEmpty(items []catalog.Item) bool { return len(items) > 0 }

func (s *Service) masterFetch(ct catalog.ContentType) (cache.FetchFunc[[]catalog.Item], string, error) {
	src, err := s.source(ct)
	if err != nil {
		return nil, "", err
	}

	start := s.StartDate()
	fetch := func(ctx context.Context) ([]catalog.Item, error) {
		slog.Info("Fetching master list", "type", ct.String(), "start", start)
		items, err := src.BestRated(ctx, start, ListLimit)
		metrics.MasterListFetchesTotal.WithLabelValues(ct.String(), metrics.Outcome(err)).Inc()
		if err != nil {
			return nil, err
		}
		metrics.MasterListItems.WithLabelValues(ct.String()).Set(float64(len(items)))
		return items, nil
	}
	return fetch, MasterKey(ct, start, ""), nil
}

// BestLastYear filters the master list for ct and lists the genres present in
// the result.
func (s *Service) BestLastYear(ctx context.Context, ct catalog.ContentType, filter catalog.GenreFilter) (catalog.ListResponse, error) {
	master, err := s.MasterList(ctx, ct)
	if err != nil {
		return catalog.ListResponse{}, err
	}

	if ct == catalog.Movie && !filter.Empty() {
		known := make([]string, 0)
		for _, g := range s.Genres(ctx, ct) {
			known = append(known, g.Name)
		}
		filter = filter.Restrict(known)
	}

	items := filter.Apply(master)
	if len(items) > ListLimit {
		items = items[:ListLimit]
	}

	return catalog.ListResponse{
		Type:            ct,
		Items:           items,
		AvailableGenres: s.availableGenres(ctx, ct, items),
	}, nil
}

func (s *Service) availableGenres(ctx context.Context, ct catalog.ContentType, items []catalog.Item) []catalog.GenreRef {
	refs := []catalog.GenreRef{}

	switch ct {
	case catalog.Movie:
		names := make(map[int]string)
		for _, g := range s.Genres(ctx, ct) {
			if id, ok := g.ID.(int); ok {
				names[id] = g.Name
			}
		}
		seen := make(map[int]bool)
		for _, item := range items {
			for _, id := range item.GenreIDs {
				name, ok := names[id]
				if !ok || seen[id] {
					continue
				}
				seen[id] = true
				refs = append(refs, catalog.GenreRef{ID: id, Name: name})
			}
		}
	case catalog.Anime:
		seen := make(map[string]bool)
		for _, item := range items {
			for _, name := range item.Genres {
				if seen[name] {
					continue
				}
				seen[name] = true
				refs = append(refs, catalog.GenreRef{ID: name, Name: name})
			}
		}
	}

	slices.SortFunc(refs, func(a, b catalog.GenreRef) int {
		return strings.Compare(a.Name, b.Name)
	})
	return refs
}

// Genres returns the provider genre list for ct. Failures are logged and
// yield an empty list.
func (s *Service) Genres(ctx context.Context, ct catalog.ContentType) []catalog.GenreRef {
	src, err := s.source(ct)
	if err != nil {
		slog.Warn("Genre list unavailable", "type", ct.String(), "error", err)
		return []catalog.GenreRef{}
	}

	genres, err := src.Genres(ctx)
	if err != nil {
		slog.Error("Error fetching genres", "type", ct.String(), "error", err)
		return []catalog.GenreRef{}
	}
	if genres == nil {
		genres = []catalog.GenreRef{}
	}
	return genres
}

// Warm rebuilds the master list of every content type and restarts its TTL,
// so requests keep being served from the cache. A failed rebuild leaves the
// previous entry in place.
func (s *Service) Warm(ctx context.Context) error {
	var errs []error
	for _, ct := range catalog.ContentTypes {
		items, err := s.Refresh(ctx, ct)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		slog.Info("Master list warmed", "type", ct.String(), "items", len(items))
	}
	return errors.Join(errs...)
}
