package service

import (
	"context"
	"sync"

	"cinehub/internal/bookings/validator"
	"cinehub/internal/movies/cache"
	"cinehub/pkg/config"
	apperrors "cinehub/pkg/errors"
	"cinehub/pkg/logger"
	"cinehub/pkg/metrics"
	"cinehub/pkg/model"
	"cinehub/pkg/sanitizer"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"

	maxQueryLength = 200
)

// MovieSource is the upstream metadata provider.
type MovieSource interface {
	LookupByID(ctx context.Context, imdbID string) (*model.Movie, error)
	LookupByTitle(ctx context.Context, title string) (*model.Movie, error)
	Search(ctx context.Context, query string, page int) (*model.MovieSearchResult, error)
}

type CatalogService interface {
	LookupByID(ctx context.Context, imdbID string) (*model.Movie, error)
	LookupByTitle(ctx context.Context, title string) (*model.Movie, error)
	Search(ctx context.Context, query string, page int) (*model.MovieSearchResult, error)
	Featured(ctx context.Context) ([]*model.Movie, error)
}

type catalogService struct {
	source      MovieSource
	cache       cache.Cache
	featured    []string
	concurrency int
	log         *logger.Logger
}

// NewCatalogService reads through movieCache when it is non-nil.
func NewCatalogService(source MovieSource, movieCache cache.Cache, cfg *config.Config) CatalogService {
	return &catalogService{
		source:      source,
		cache:       movieCache,
		featured:    sanitizer.NormalizeIMDbIDs(cfg.FeaturedMovies),
		concurrency: max(cfg.FeaturedConcurrency, 1),
		log:         cfg.Log.With("component", "movies"),
	}
}

func (s *catalogService) LookupByID(ctx context.Context, imdbID string) (*model.Movie, error) {
	imdbID = sanitizer.NormalizeIMDbID(imdbID)
	if !validator.IsIMDbID(imdbID) {
		return nil, apperrors.InvalidInput("movie id must be an IMDb id such as tt0111161")
	}
	return readThrough(ctx, s, cache.MovieIDKey(imdbID), func(ctx context.Context) (*model.Movie, error) {
		return s.source.LookupByID(ctx, imdbID)
	})
}

func (s *catalogService) LookupByTitle(ctx context.Context, title string) (*model.Movie, error) {
	title = sanitizer.NormalizeTitle(title)
	if title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	movie, err := readThrough(ctx, s, cache.MovieTitleKey(title), func(ctx context.Context) (*model.Movie, error) {
		return s.source.LookupByTitle(ctx, title)
	})
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.MovieIDKey(movie.ImdbID), movie)
	return movie, nil
}

func (s *catalogService) Search(ctx context.Context, query string, page int) (*model.MovieSearchResult, error) {
	query = sanitizer.NormalizeQuery(query)
	if query == "" {
		return nil, apperrors.InvalidInput("search query is required")
	}
	if len(query) > maxQueryLength {
		return nil, apperrors.InvalidInput("search query is too long")
	}
	if page < 1 {
		page = 1
	}
	return readThrough(ctx, s, cache.MovieSearchKey(query, page), func(ctx context.Context) (*model.MovieSearchResult, error) {
		return s.source.Search(ctx, query, page)
	})
}

// Featured looks up the configured selection in order. Ids that fail are
// skipped; the call only fails when every lookup did.
func (s *catalogService) Featured(ctx context.Context) ([]*model.Movie, error) {
	results := make([]*model.Movie, len(s.featured))
	errs := make([]error, len(s.featured))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, id := range s.featured {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			results[i], errs[i] = s.LookupByID(ctx, id)
		}()
	}
	wg.Wait()

	movies := make([]*model.Movie, 0, len(results))
	var firstErr error
	for i, movie := range results {
		if errs[i] != nil {
			s.log.Warn("Skipping featured movie", "imdb_id", s.featured[i], "error", errs[i])
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		movies = append(movies, movie)
	}

	if len(movies) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return movies, nil
}

func readThrough[T any](ctx context.Context, s *catalogService, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		var cached T
		hit, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.TrackMovieCache(cacheError)
			s.log.Warn("Movie cache read failed", "key", key, "error", err)
		case hit:
			metrics.TrackMovieCache(cacheHit)
			return cached, nil
		default:
			metrics.TrackMovieCache(cacheMiss)
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.store(ctx, key, value)
	return value, nil
}

func (s *catalogService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(context.WithoutCancel(ctx), key, value); err != nil {
		s.log.Warn("Movie cache write failed", "key", key, "error", err)
	}
}
