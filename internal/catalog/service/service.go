package service

import (
	"context"
	"errors"

	"github.com/AlibekovAA/myflix/internal/catalog/cache"
	"github.com/AlibekovAA/myflix/internal/catalog/domain"
	catalogrepo "github.com/AlibekovAA/myflix/internal/catalog/repository"
	commonerrors "github.com/AlibekovAA/myflix/internal/common/errors"
	"github.com/AlibekovAA/myflix/internal/common/logger"
	"github.com/AlibekovAA/myflix/internal/observability/metrics"
)

type CatalogService struct {
	repo  catalogrepo.Repository
	cache cache.Cache
	log   *logger.Logger
}

func NewCatalogService(repo catalogrepo.Repository, c cache.Cache, log *logger.Logger) *CatalogService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &CatalogService{repo: repo, cache: c, log: log}
}

func (s *CatalogService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return readThrough(ctx, s, "movies", "all", s.repo.ListMovies)
}

func (s *CatalogService) MovieByTitle(ctx context.Context, title string) (domain.Movie, error) {
	return readThrough(ctx, s, "movie", title, func(ctx context.Context) (domain.Movie, error) {
		return s.repo.FindMovieByTitle(ctx, title)
	})
}

func (s *CatalogService) Genre(ctx context.Context, name string) (domain.Genre, error) {
	return readThrough(ctx, s, "genre", name, func(ctx context.Context) (domain.Genre, error) {
		return s.repo.FindGenre(ctx, name)
	})
}

func (s *CatalogService) Director(ctx context.Context, name string) (domain.Director, error) {
	return readThrough(ctx, s, "director", name, func(ctx context.Context) (domain.Director, error) {
		return s.repo.FindDirector(ctx, name)
	})
}

// readThrough serves from the cache when it can. Cache failures are logged
// and the store answers instead; not-found results are never cached.
func readThrough[T any](ctx context.Context, s *CatalogService, kind, name string, load func(context.Context) (T, error)) (T, error) {
	key := cache.Key(kind, name)

	var cached T
	found, err := s.cache.GetJSON(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.CatalogCacheLookups.WithLabelValues(kind, "error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"kind":   kind,
			"action": "catalog_cache_get_failed",
		}).Warnf("catalog cache read failed: %v", err)
	case found:
		metrics.CatalogCacheLookups.WithLabelValues(kind, "hit").Inc()
		return cached, nil
	default:
		metrics.CatalogCacheLookups.WithLabelValues(kind, "miss").Inc()
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, classifyCatalogError(err)
	}

	if err := s.cache.SetJSON(ctx, key, value); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"kind":   kind,
			"action": "catalog_cache_set_failed",
		}).Warnf("catalog cache write failed: %v", err)
	}

	return value, nil
}

func classifyCatalogError(err error) error {
	if domainErr, ok := commonerrors.AsDomainError(err); ok && domainErr.Category() == commonerrors.CategoryNotFound {
		return domainErr
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return commonerrors.ErrStoreUnavailable.WithCause(err)
}
